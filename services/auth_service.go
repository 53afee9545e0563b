package services

import (
	"taskflow-app/taskflow/models"
	"taskflow-app/taskflow/utils/token"
)

type AuthServiceInterface interface {
	Authenticate(tokenString string) (models.Principal, error)
}

// AuthService verifies bearer tokens issued by the external identity
// provider and turns their claims into a Principal.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret)}
}

func (s *AuthService) Authenticate(tokenString string) (models.Principal, error) {
	claims, err := token.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return models.Principal{}, ErrInvalidToken
	}

	if claims.Subject == "" {
		return models.Principal{}, ErrInvalidToken
	}

	return models.Principal{
		ExternalID: claims.Subject,
		Emails:     claims.Emails,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
	}, nil
}

var AuthServiceInstance AuthServiceInterface
