package storage

import (
	"errors"
	"strings"
	"testing"

	"acai-pedidos/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestOrderStatusUpdateQuery(t *testing.T) {
	delivered := orderStatusUpdateQuery(model.StatusDelivered)
	if !strings.Contains(delivered, "data_entregue = NOW()") {
		t.Errorf("transition to entregue must stamp data_entregue: %s", delivered)
	}

	for _, status := range []model.OrderStatus{
		model.StatusNew, model.StatusProduction, model.StatusReady, model.StatusCancelled,
	} {
		query := orderStatusUpdateQuery(status)
		if strings.Contains(query, "data_entregue") {
			t.Errorf("transition to %s must not touch data_entregue: %s", status, query)
		}
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !isForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("23503 should be reported as a foreign key violation")
	}
	if isForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 is a unique violation, not a foreign key one")
	}
	if isForeignKeyViolation(errors.New("insert order: broken pipe")) {
		t.Error("plain errors are not foreign key violations")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 should be reported as a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("23503 is a foreign key violation, not a unique one")
	}
	if isUniqueViolation(errors.New("duplicate")) {
		t.Error("plain errors are not unique violations")
	}
}
