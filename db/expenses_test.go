package db

import (
	"testing"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	qt "github.com/frankban/quicktest"
)

func TestCreateExpense(t *testing.T) {
	defer testDB.Reset()
	c := qt.New(t)
	business := newTestUser(t, testBizEmail, BusinessRole)
	req := newTestRequest(t, business, BulkRequest)
	// invalid category
	_, err := testDB.CreateExpense(&Expense{
		BusinessID: business,
		RequestID:  req.ID,
		Amount:     100,
		Category:   ExpenseCategory("fuel"),
	})
	c.Assert(err, qt.Equals, ErrInvalidData)
	// negative amount
	_, err = testDB.CreateExpense(&Expense{
		BusinessID: business,
		RequestID:  req.ID,
		Amount:     -1,
		Category:   ExpenseDisposal,
	})
	c.Assert(err, qt.Equals, ErrInvalidData)
	// the referenced request must exist
	_, err = testDB.CreateExpense(&Expense{
		BusinessID: business,
		RequestID:  internal.NewObjectID(),
		Amount:     100,
		Category:   ExpenseDisposal,
	})
	c.Assert(err, qt.Equals, ErrNotFound)
	// and must belong to the same business
	otherBiz := newTestUser(t, "other@email.test", BusinessRole)
	foreign := newTestRequest(t, otherBiz, BulkRequest)
	_, err = testDB.CreateExpense(&Expense{
		BusinessID: business,
		RequestID:  foreign.ID,
		Amount:     100,
		Category:   ExpenseDisposal,
	})
	c.Assert(err, qt.Equals, ErrNotFound)
	// a valid expense defaults its date to now
	exp, err := testDB.CreateExpense(&Expense{
		BusinessID: business,
		RequestID:  req.ID,
		Amount:     100,
		Category:   ExpenseDisposal,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(exp.ID.IsZero(), qt.IsFalse)
	c.Assert(exp.Date.IsZero(), qt.IsFalse)
}

func TestExpensesByBusiness(t *testing.T) {
	defer testDB.Reset()
	c := qt.New(t)
	business := newTestUser(t, testBizEmail, BusinessRole)
	req := newTestRequest(t, business, BulkRequest)
	now := time.Now()
	for i, amount := range []float64{10, 20, 30} {
		_, err := testDB.CreateExpense(&Expense{
			BusinessID: business,
			RequestID:  req.ID,
			Amount:     amount,
			Category:   ExpenseCollection,
			Date:       now.AddDate(0, 0, -i*10),
		})
		c.Assert(err, qt.IsNil)
	}
	// all expenses, newest date first
	expenses, err := testDB.ExpensesByBusiness(business, time.Time{}, time.Time{})
	c.Assert(err, qt.IsNil)
	c.Assert(expenses, qt.HasLen, 3)
	c.Assert(expenses[0].Amount, qt.Equals, float64(10))
	// bounded by an inclusive date range
	expenses, err = testDB.ExpensesByBusiness(business, now.AddDate(0, 0, -15), time.Time{})
	c.Assert(err, qt.IsNil)
	c.Assert(expenses, qt.HasLen, 2)
	// another business sees nothing
	expenses, err = testDB.ExpensesByBusiness(internal.NewObjectID(), time.Time{}, time.Time{})
	c.Assert(err, qt.IsNil)
	c.Assert(expenses, qt.HasLen, 0)
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	defer testDB.Reset()
	c := qt.New(t)
	business := newTestUser(t, testBizEmail, BusinessRole)
	other := newTestUser(t, "other@email.test", BusinessRole)
	req := newTestRequest(t, business, BulkRequest)
	exp, err := testDB.CreateExpense(&Expense{
		BusinessID: business,
		RequestID:  req.ID,
		Amount:     100,
		Category:   ExpenseDisposal,
	})
	c.Assert(err, qt.IsNil)
	// a foreign business cannot update the expense
	_, err = testDB.UpdateExpense(other, exp.ID, 50, ExpenseRecycling, "updated")
	c.Assert(err, qt.Equals, ErrNotFound)
	// the owning business can
	updated, err := testDB.UpdateExpense(business, exp.ID, 50, ExpenseRecycling, "updated")
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Amount, qt.Equals, float64(50))
	c.Assert(updated.Category, qt.Equals, ExpenseRecycling)
	c.Assert(updated.Description, qt.Equals, "updated")
	// same ownership rule for deletion
	c.Assert(testDB.DeleteExpense(other, exp.ID), qt.Equals, ErrNotFound)
	c.Assert(testDB.DeleteExpense(business, exp.ID), qt.IsNil)
	_, err = testDB.Expense(business, exp.ID)
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestExpenseAnalytics(t *testing.T) {
	defer testDB.Reset()
	c := qt.New(t)
	business := newTestUser(t, testBizEmail, BusinessRole)
	req := newTestRequest(t, business, BulkRequest)
	// two disposal expenses in one month, one recycling the month before
	base := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	for _, exp := range []*Expense{
		{Amount: 100, Category: ExpenseDisposal, Date: base},
		{Amount: 50, Category: ExpenseDisposal, Date: base.AddDate(0, 0, 1)},
		{Amount: 30, Category: ExpenseRecycling, Date: base.AddDate(0, -1, 0)},
	} {
		exp.BusinessID = business
		exp.RequestID = req.ID
		_, err := testDB.CreateExpense(exp)
		c.Assert(err, qt.IsNil)
	}
	analytics, err := testDB.ExpenseAnalytics(business, time.Time{}, time.Time{})
	c.Assert(err, qt.IsNil)
	c.Assert(analytics.MonthlyTotals, qt.HasLen, 2)
	monthly := map[string]float64{}
	for _, m := range analytics.MonthlyTotals {
		monthly[m.Month] = m.Total
	}
	c.Assert(monthly["2026-5"], qt.Equals, float64(150))
	c.Assert(monthly["2026-4"], qt.Equals, float64(30))
	c.Assert(analytics.CategoryTotals, qt.HasLen, 2)
	categories := map[ExpenseCategory]float64{}
	for _, ct := range analytics.CategoryTotals {
		categories[ct.Category] = ct.Total
	}
	c.Assert(categories[ExpenseDisposal], qt.Equals, float64(150))
	c.Assert(categories[ExpenseRecycling], qt.Equals, float64(30))
	// a bounded window drops the older month
	analytics, err = testDB.ExpenseAnalytics(business, base.AddDate(0, 0, -7), time.Time{})
	c.Assert(err, qt.IsNil)
	c.Assert(analytics.MonthlyTotals, qt.HasLen, 1)
	c.Assert(analytics.MonthlyTotals[0].Total, qt.Equals, float64(150))
}
