package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,    // facility
			int(SeverityNotice), // severity
			sqlmock.AnyArg(),    // timestamp
			sqlmock.AnyArg(),    // hostname
			"marnix13",          // appname
			sqlmock.AnyArg(),    // procid
			"approval",          // msgid
			sqlmock.AnyArg(),    // sdata
			"admin approved account user",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(ApprovalEvent{AdminID: "admin", UserID: "user", Action: "approve", Success: true})
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveNilDB(t *testing.T) {
	store := &Store{}
	if err := store.Save(RoleChangeEvent{}); err != nil {
		t.Errorf("Save() with nil db should be a no-op, got %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")
	store, err := NewStore()
	if err != nil || store != nil {
		t.Errorf("NewStore() = %v, %v; want nil, nil", store, err)
	}
}

func TestStoreRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"facility", "severity", "timestamp", "hostname", "appname", "procid", "msgid", "sdata", "message"}).
		AddRow(FacilityAuthPriv, int(SeverityInfo), now, "host", "marnix13", "42", "service", []byte(`{"subject@32473":{"service":"sonarr"}}`), "a created service sonarr")
	mock.ExpectQuery(`SELECT facility, severity, timestamp`).WithArgs(10).WillReturnRows(rows)

	messages, err := NewStoreWithDB(db).Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Msgid != "service" || messages[0].Procid != "42" {
		t.Errorf("unexpected message %+v", messages[0])
	}
	if _, ok := messages[0].Sdata["subject@32473"]; !ok {
		t.Errorf("expected sdata to be decoded, got %v", messages[0].Sdata)
	}
}
