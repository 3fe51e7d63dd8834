package db

import (
	"testing"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	qt "github.com/frankban/quicktest"
)

func TestCreateSchedule(t *testing.T) {
	defer testDB.Reset()
	c := qt.New(t)
	business := newTestUser(t, testBizEmail, BusinessRole)
	start := time.Now().AddDate(0, 0, 1)
	// weekly without a day of week
	_, err := testDB.CreateSchedule(&ScheduledPickup{
		BusinessID: business,
		Frequency:  FrequencyWeekly,
		TimeSlot:   testTimeSlot,
		WasteType:  WasteRecyclable,
		Address:    testAddress,
		StartDate:  start,
	})
	c.Assert(err, qt.Equals, ErrInvalidData)
	// monthly with an out of range day
	_, err = testDB.CreateSchedule(&ScheduledPickup{
		BusinessID: business,
		Frequency:  FrequencyMonthly,
		DayOfMonth: 32,
		TimeSlot:   testTimeSlot,
		WasteType:  WasteRecyclable,
		Address:    testAddress,
		StartDate:  start,
	})
	c.Assert(err, qt.Equals, ErrInvalidData)
	// both recurrence fields at once
	_, err = testDB.CreateSchedule(&ScheduledPickup{
		BusinessID: business,
		Frequency:  FrequencyWeekly,
		DayOfWeek:  "monday",
		DayOfMonth: 15,
		TimeSlot:   testTimeSlot,
		WasteType:  WasteRecyclable,
		Address:    testAddress,
		StartDate:  start,
	})
	c.Assert(err, qt.Equals, ErrInvalidData)
	// unknown frequency
	_, err = testDB.CreateSchedule(&ScheduledPickup{
		BusinessID: business,
		Frequency:  Frequency("daily"),
		TimeSlot:   testTimeSlot,
		WasteType:  WasteRecyclable,
		Address:    testAddress,
		StartDate:  start,
	})
	c.Assert(err, qt.Equals, ErrInvalidData)
	// a valid weekly schedule starts out active
	sp, err := testDB.CreateSchedule(&ScheduledPickup{
		BusinessID: business,
		Frequency:  FrequencyWeekly,
		DayOfWeek:  "monday",
		TimeSlot:   testTimeSlot,
		WasteType:  WasteRecyclable,
		Address:    testAddress,
		StartDate:  start,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(sp.ID.IsZero(), qt.IsFalse)
	c.Assert(sp.Active, qt.IsTrue)
}

func TestSchedulesByBusiness(t *testing.T) {
	defer testDB.Reset()
	c := qt.New(t)
	business := newTestUser(t, testBizEmail, BusinessRole)
	start := time.Now().AddDate(0, 0, 1)
	for _, day := range []int{1, 15} {
		_, err := testDB.CreateSchedule(&ScheduledPickup{
			BusinessID: business,
			Frequency:  FrequencyMonthly,
			DayOfMonth: day,
			TimeSlot:   testTimeSlot,
			WasteType:  WasteBiodegradable,
			Address:    testAddress,
			StartDate:  start,
		})
		c.Assert(err, qt.IsNil)
	}
	schedules, err := testDB.SchedulesByBusiness(business)
	c.Assert(err, qt.IsNil)
	c.Assert(schedules, qt.HasLen, 2)
	// another business sees nothing
	schedules, err = testDB.SchedulesByBusiness(internal.NewObjectID())
	c.Assert(err, qt.IsNil)
	c.Assert(schedules, qt.HasLen, 0)
}

func TestSetScheduleActive(t *testing.T) {
	defer testDB.Reset()
	c := qt.New(t)
	business := newTestUser(t, testBizEmail, BusinessRole)
	other := newTestUser(t, "other@email.test", BusinessRole)
	sp, err := testDB.CreateSchedule(&ScheduledPickup{
		BusinessID: business,
		Frequency:  FrequencyWeekly,
		DayOfWeek:  "friday",
		TimeSlot:   testTimeSlot,
		WasteType:  WasteNonBiodegradable,
		Address:    testAddress,
		StartDate:  time.Now().AddDate(0, 0, 1),
	})
	c.Assert(err, qt.IsNil)
	// a foreign business cannot toggle the schedule
	_, err = testDB.SetScheduleActive(other, sp.ID, false)
	c.Assert(err, qt.Equals, ErrNotFound)
	// the owner pauses and resumes it
	paused, err := testDB.SetScheduleActive(business, sp.ID, false)
	c.Assert(err, qt.IsNil)
	c.Assert(paused.Active, qt.IsFalse)
	resumed, err := testDB.SetScheduleActive(business, sp.ID, true)
	c.Assert(err, qt.IsNil)
	c.Assert(resumed.Active, qt.IsTrue)
}
