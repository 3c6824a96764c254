package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordkart/kvitt/internal/ledger"
)

func TestGetReceipt_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetReceipt(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
}

func TestListReceipts_OrderedByDateThenID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	storeID := seedStore(t, s, "Rema 1000", "Oslo")

	// Inserted out of date order on purpose.
	r1 := seedReceipt(t, s, storeID, "2024-02-01")
	r2 := seedReceipt(t, s, storeID, "2024-01-05")
	r3 := seedReceipt(t, s, storeID, "2024-01-05")

	got, err := s.ListReceipts(ctx, ledger.ReceiptFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{r2, r3, r1}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestListReceipts_Filters(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	rema := seedStore(t, s, "Rema 1000", "Oslo")
	kiwi := seedStore(t, s, "Kiwi", "Oslo")

	seedReceipt(t, s, rema, "2024-01-05")
	inRange := seedReceipt(t, s, kiwi, "2024-02-10")
	seedReceipt(t, s, kiwi, "2024-03-20")

	byStore, err := s.ListReceipts(ctx, ledger.ReceiptFilter{StoreID: kiwi})
	require.NoError(t, err)
	assert.Len(t, byStore, 2)

	byRange, err := s.ListReceipts(ctx, ledger.ReceiptFilter{DateFrom: "2024-02-01", DateTo: "2024-02-28"})
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	assert.Equal(t, inRange, byRange[0].ID)

	both, err := s.ListReceipts(ctx, ledger.ReceiptFilter{StoreID: rema, DateFrom: "2024-02-01"})
	require.NoError(t, err)
	assert.Empty(t, both)
	assert.NotNil(t, both, "empty result must be a slice, not nil")
}

func TestListReceipts_BadFilterDate(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ListReceipts(context.Background(), ledger.ReceiptFilter{DateFrom: "yesterday"})
	require.Error(t, err)
	assert.True(t, ledger.IsValidation(err))
}

func TestListStores(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.ListStores(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a := seedStore(t, s, "Rema 1000", "Oslo")
	b := seedStore(t, s, "Kiwi", "Bergen")

	stores, err := s.ListStores(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, a, stores[0].ID)
	assert.Equal(t, b, stores[1].ID)
	assert.Equal(t, "Kiwi", stores[1].Name)
	assert.Equal(t, "Bergen", stores[1].Location)
}

func TestFindReceipt(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	storeID := seedStore(t, s, "Rema 1000", "Oslo")
	id := seedReceipt(t, s, storeID, "2024-01-05")

	got, err := s.FindReceipt(ctx, storeID, "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.FindReceipt(ctx, storeID, "2024-01-06")
	assert.True(t, ledger.IsNotFound(err))
}

func TestReceiptTotal(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	storeID := seedStore(t, s, "Rema 1000", "Oslo")

	// 2*150 + 1*350 = 650
	id := seedReceipt(t, s, storeID, "2024-01-05",
		milk(2, 150),
		ledger.ItemInput{Name: "Bread", Quantity: 1, Price: 350, Unit: "NOK"},
	)

	total, err := s.ReceiptTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(650), total)

	// Adding an item raises the total by exactly quantity*price.
	_, err = s.AddItem(ctx, id, ledger.ItemInput{Name: "Cheese", Quantity: 3, Price: 100, Unit: "NOK"})
	require.NoError(t, err)

	total, err = s.ReceiptTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(950), total)
}

func TestReceiptTotal_EmptyReceipt(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	storeID := seedStore(t, s, "Rema 1000", "Oslo")
	id := seedReceipt(t, s, storeID, "2024-01-05")

	total, err := s.ReceiptTotal(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestReceiptTotal_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReceiptTotal(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
}

func TestReceiptTotals_GroupedByUnit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	storeID := seedStore(t, s, "Rema 1000", "Oslo")

	id := seedReceipt(t, s, storeID, "2024-01-05",
		milk(2, 150),
		ledger.ItemInput{Name: "Wine", Quantity: 1, Price: 1200, Unit: "EUR"},
		ledger.ItemInput{Name: "Bread", Quantity: 1, Price: 350, Unit: "NOK"},
	)

	totals, err := s.ReceiptTotals(ctx, id)
	require.NoError(t, err)
	// Ordered by unit ASC: EUR before NOK.
	require.Len(t, totals, 2)
	assert.Equal(t, ledger.UnitTotal{Unit: "EUR", Total: 1200}, totals[0])
	assert.Equal(t, ledger.UnitTotal{Unit: "NOK", Total: 650}, totals[1])
}

// Scenario from the ledger's acceptance checklist: one store, one receipt
// with 2x150 NOK milk, total 300, then delete and observe NOT_FOUND.
func TestScenario_CreateTotalDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	storeID := seedStore(t, s, "Rema 1000", "Oslo")
	receiptID, err := s.CreateReceipt(ctx, storeID, "2024-01-05", []ledger.ItemInput{
		{Name: "Milk", Quantity: 2, Price: 150, Unit: "NOK"},
	})
	require.NoError(t, err)

	total, err := s.ReceiptTotal(ctx, receiptID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)

	require.NoError(t, s.DeleteReceipt(ctx, receiptID))

	_, err = s.GetReceipt(ctx, receiptID)
	assert.True(t, ledger.IsNotFound(err))
	_, err = s.ReceiptTotal(ctx, receiptID)
	assert.True(t, ledger.IsNotFound(err))
}
