package database

import (
	"os"
	"strings"
	"testing"

	"github.com/comanda-app/comanda/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedFixture(t *testing.T, db *gorm.DB) SeedResult {
	t.Helper()
	f, err := os.Open("testdata/seed.yaml")
	require.NoError(t, err)
	defer f.Close()
	res, err := Seed(db, f)
	require.NoError(t, err)
	return res
}

func TestMigrateCreatesTables(t *testing.T) {
	db := setupTestDB(t)
	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

func TestSeedFixture(t *testing.T) {
	db := setupTestDB(t)
	res := seedFixture(t, db)
	assert.Equal(t, SeedResult{Tenants: 1, Categories: 2, Inventory: 2, Products: 2, Users: 2, Coupons: 1}, res)

	var tenant models.Tenant
	require.NoError(t, db.First(&tenant, "slug = ?", "sabor").Error)
	assert.Equal(t, 58, tenant.PrinterWidth)
	assert.True(t, tenant.IsOpen)
	assert.Equal(t, "2.5", tenant.CardMachineFee.String())
	assert.Equal(t, "18:00", tenant.OperatingHours.Data()["5"].Open)

	var burger models.Product
	require.NoError(t, db.First(&burger, "name = ?", "X-Burger").Error)
	require.NotNil(t, burger.InventoryID)
	var bread models.InventoryItem
	require.NoError(t, db.First(&bread, "id = ?", *burger.InventoryID).Error)
	assert.Equal(t, "Pão brioche", bread.Name)
	assert.Len(t, burger.Sides, 2)
	assert.Equal(t, "3.5", burger.Sides[1].Price.String())

	var admin models.User
	require.NoError(t, db.First(&admin, "email = ?", "ana@sabor.com.br").Error)
	assert.Equal(t, "admin", admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("segredo123")))

	var coupon models.Coupon
	require.NoError(t, db.First(&coupon).Error)
	assert.Equal(t, "BEMVINDO10", coupon.Code)
	assert.True(t, coupon.IsActive)
}

func TestSeedIsRepeatable(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	seedFixture(t, db)

	var products, users int64
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 2, products)
	assert.EqualValues(t, 2, users)
}

func TestSeedRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	cases := map[string]string{
		"unknown field":     "tenants:\n  - slug: a\n    name: A\n    colour: red\n",
		"missing slug":      "tenants:\n  - name: A\n",
		"bad amount":        "tenants:\n  - slug: a\n    name: A\n    delivery_fee: cinco\n",
		"unknown inventory": "tenants:\n  - slug: a\n    name: A\n    products:\n      - { name: X, price: 1, inventory: nada }\n",
		"bad role":          "tenants:\n  - slug: a\n    name: A\n    users:\n      - { name: B, email: b@a.com, password: secret12, role: owner }\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Seed(db, strings.NewReader(doc))
			assert.Error(t, err)
		})
	}

	var tenants int64
	db.Model(&models.Tenant{}).Count(&tenants)
	assert.Zero(t, tenants, "failed seeds roll back")
}
