package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline_StartsWithGeneratedEvent(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	events, err := ledger.GetApplicationTimeline(appID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, EventGenerated, events[0].EventType)
	assert.Equal(t, appID, events[0].ApplicationID)
	require.NotNil(t, events[0].Metadata)
	assert.Equal(t, "Squarespace", events[0].Metadata["company"])
	assert.Equal(t, float64(8), events[0].Metadata["credibility_score"])
}

func TestTimeline_PreservesInsertionOrder(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	sequence := []string{EventSent, EventViewed, EventResponded, "interview_scheduled"}
	for _, eventType := range sequence {
		require.NoError(t, ledger.UpdateApplicationStatus(appID, eventType, Document{"note": eventType}))
	}

	events, err := ledger.GetApplicationTimeline(appID)
	require.NoError(t, err)
	require.Len(t, events, len(sequence)+1)

	assert.Equal(t, EventGenerated, events[0].EventType)
	for i, eventType := range sequence {
		assert.Equal(t, eventType, events[i+1].EventType)
	}

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.Before(events[i-1].Timestamp),
			"timestamps must be non-decreasing")
	}
}

func TestUpdateApplicationStatus_UnknownApplication(t *testing.T) {
	ledger := newTestDB(t)

	err := ledger.UpdateApplicationStatus(9999, EventSent, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateApplicationStatus_RequiresEventType(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	err := ledger.UpdateApplicationStatus(appID, "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplicationStatus_Derived(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	status, err := ledger.ApplicationStatus(appID)
	require.NoError(t, err)
	assert.Equal(t, EventGenerated, status)

	require.NoError(t, ledger.UpdateApplicationStatus(appID, EventSent, nil))
	require.NoError(t, ledger.UpdateApplicationStatus(appID, EventResponded, nil))

	status, err = ledger.ApplicationStatus(appID)
	require.NoError(t, err)
	assert.Equal(t, EventResponded, status)

	_, err = ledger.ApplicationStatus(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
