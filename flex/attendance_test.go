package flex_test

import (
	"testing"

	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/stretchr/testify/assert"
)

func TestAttendance_ClassifiesEntries(t *testing.T) {
	// GIVEN: One day with every kind of hour marking
	// WHEN: Aggregating with the default rules
	// THEN: Each entry lands in its bucket

	projectMarker := work("2023-01-02", 1)
	projectMarker.LeaveType = "[project]"

	overtime := work("2023-01-02", 2)
	overtime.PhaseName = "overtime"

	kiky := work("2023-01-02", 1)
	kiky.Project = "KIKY"

	unsubmitted := work("2023-01-02", 8)
	unsubmitted.Status = flex.StatusUnsubmitted

	days := attendance(
		work("2023-01-02", 5),
		projectMarker,
		overtime,
		kiky,
		leave("2023-01-02", "Unpaid leave", 3),
		leave("2023-01-02", "Flex time Leave", 4),
		leave("2023-01-02", "Sick leave", 1.5),
		unsubmitted,
	)

	buckets, logged := days.On(d("2023-01-02"))
	assert.True(t, logged)
	assert.Equal(t, "6.00", buckets.Worked.String())
	assert.Equal(t, "2.00", buckets.Overtime.String())
	assert.Equal(t, "3.00", buckets.UnpaidLeave.String())
	assert.Equal(t, "1.50", buckets.Leave.String())
	assert.Equal(t, "12.50", buckets.Total().String())
}

func TestAttendance_AnySubmittedRow_MarksDayLogged(t *testing.T) {
	// GIVEN: A day with only flex leave, a day with only KIKY work
	//        and a day with only unsubmitted hours
	// WHEN: Looking them up
	// THEN: The submitted days are logged with empty buckets, the unsubmitted one is not

	kiky := work("2023-01-04", 4)
	kiky.Project = "KIKY"

	unsubmitted := work("2023-01-03", 7.5)
	unsubmitted.Status = flex.StatusUnsubmitted

	days := attendance(leave("2023-01-02", "Flex time Leave", 7.5), unsubmitted, kiky)

	buckets, logged := days.On(d("2023-01-02"))
	assert.True(t, logged)
	assert.True(t, buckets.Total().IsZero())

	buckets, logged = days.On(d("2023-01-04"))
	assert.True(t, logged)
	assert.True(t, buckets.Total().IsZero())

	buckets, logged = days.On(d("2023-01-03"))
	assert.False(t, logged)
	assert.True(t, buckets.Total().IsZero())
}
