package cart

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/cartquote-backend/pkg/config"
	"github.com/angelmondragon/cartquote-backend/pkg/db"
	"github.com/angelmondragon/cartquote-backend/pkg/db/models"
	"github.com/angelmondragon/cartquote-backend/pkg/logger"
)

func setupCartTestDB(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(&models.Cart{}, &models.CartItem{}, &models.AppliedPromotion{}))
	return client
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-test", Output: &bytes.Buffer{}})
}

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func moneyPtr(value string) *decimal.Decimal {
	d := money(value)
	return &d
}

func strPtr(value string) *string {
	return &value
}
