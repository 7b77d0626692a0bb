package reminders

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsonnoyola12/sara-crm/internal/leads"
)

var policyCols = []string{
	"lead_category", "reminder_hours", "active", "message_template",
	"send_start_hour", "send_end_hour", "updated_at",
}

func TestPolicyStoreGetAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows(policyCols).
		AddRow("hot", 24, true, "Hola {name}", 9, 20, now).
		AddRow("warm", 72, true, "Hola {name}", 9, 20, now).
		AddRow("cold", 168, false, "Hola {name}", 9, 20, now)
	mock.ExpectQuery("FROM reminder_policies").WillReturnRows(rows)

	store := NewPolicyStore(mock)
	policies, err := store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, policies, 3)
	assert.Equal(t, 24, policies[leads.CategoryHot].IntervalHours)
	assert.False(t, policies[leads.CategoryCold].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyStoreGetByCategoryNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("WHERE lead_category = \\$1").
		WithArgs("hot").
		WillReturnRows(pgxmock.NewRows(policyCols))

	store := NewPolicyStore(mock)
	_, err = store.GetByCategory(context.Background(), leads.CategoryHot)
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestPolicyStoreUpdateValidatesWindow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPolicyStore(mock)
	err = store.Update(context.Background(), &Policy{
		Category:      leads.CategoryHot,
		IntervalHours: 24,
		SendStartHour: 9,
		SendEndHour:   24,
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.NoError(t, mock.ExpectationsWereMet(), "invalid input never reaches the database")
}

func TestPolicyStoreUpdateUnknownCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE reminder_policies").
		WithArgs(24, true, "Hola {name}", 9, 20, pgxmock.AnyArg(), "hot").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := NewPolicyStore(mock)
	err = store.Update(context.Background(), &Policy{
		Category:        leads.CategoryHot,
		IntervalHours:   24,
		Active:          true,
		MessageTemplate: "Hola {name}",
		SendStartHour:   9,
		SendEndHour:     20,
	})
	assert.ErrorIs(t, err, ErrPolicyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
