package services

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"taskflow-app/taskflow/models"
	"taskflow-app/taskflow/testutils"
)

func TestResolveUser_ExistingUser(t *testing.T) {
	db, mock, cleanup := testutils.SetupMockDB()
	defer cleanup()

	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE external_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "email", "name", "created_at", "updated_at"}).
			AddRow(userID.String(), "idp|42", "alice@example.com", "Alice Smith", time.Now(), time.Now()))

	identityService := &IdentityService{}
	user, err := identityService.ResolveUser(db, models.Principal{
		ExternalID: "idp|42",
		Emails:     []string{"alice+new@example.com"},
		FirstName:  "Alicia",
	})

	assert.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	// Existing records are returned unchanged; profiles are not synced.
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice Smith", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUser_FirstLoginCreatesUser(t *testing.T) {
	db, mock, cleanup := testutils.SetupMockDB()
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE external_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "events"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	identityService := &IdentityService{}
	user, err := identityService.ResolveUser(db, models.Principal{
		ExternalID: "idp|7",
		Emails:     []string{"bob@example.com"},
		FirstName:  "Bob",
		LastName:   "Jones",
	})

	assert.NoError(t, err)
	assert.Equal(t, "idp|7", user.ExternalID)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, "Bob Jones", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUser_PlaceholderProfile(t *testing.T) {
	db, mock, cleanup := testutils.SetupMockDB()
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE external_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "events"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	identityService := &IdentityService{}
	user, err := identityService.ResolveUser(db, models.Principal{ExternalID: "idp|anon"})

	assert.NoError(t, err)
	assert.Equal(t, "user-idp|anon@taskflow.com", user.Email)
	assert.Equal(t, "User", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUser_ConcurrentFirstLogin(t *testing.T) {
	db, mock, cleanup := testutils.SetupMockDB()
	defer cleanup()

	winnerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE external_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()
	// Losing the race degrades to a lookup of the winner's row.
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE external_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "email", "name", "created_at", "updated_at"}).
			AddRow(winnerID.String(), "idp|9", "carol@example.com", "Carol", time.Now(), time.Now()))

	identityService := &IdentityService{}
	user, err := identityService.ResolveUser(db, models.Principal{
		ExternalID: "idp|9",
		Emails:     []string{"carol@example.com"},
		FirstName:  "Carol",
	})

	assert.NoError(t, err)
	assert.Equal(t, winnerID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUser_MissingPrincipal(t *testing.T) {
	db, mock, cleanup := testutils.SetupMockDB()
	defer cleanup()

	identityService := &IdentityService{}
	_, err := identityService.ResolveUser(db, models.Principal{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", principalEmail(models.Principal{ExternalID: "x", Emails: []string{"a@b.com", "c@d.com"}}))
	assert.Equal(t, "c@d.com", principalEmail(models.Principal{ExternalID: "x", Emails: []string{"", "c@d.com"}}))
	assert.Equal(t, "user-x@taskflow.com", principalEmail(models.Principal{ExternalID: "x"}))
}

func TestPrincipalName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", principalName(models.Principal{FirstName: "Ada", LastName: "Lovelace"}))
	assert.Equal(t, "Ada", principalName(models.Principal{FirstName: "Ada"}))
	assert.Equal(t, "Lovelace", principalName(models.Principal{LastName: "Lovelace"}))
	assert.Equal(t, "User", principalName(models.Principal{}))
}
