package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Lifecycle event types. Callers may record others; these are the ones the
// ledger itself knows about.
const (
	EventGenerated = "generated"
	EventSent      = "sent"
	EventViewed    = "viewed"
	EventResponded = "responded"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// trackEvent appends a tracking event using the supplied connection or
// transaction, so creation events commit atomically with their application.
func trackEvent(e execer, applicationID int64, eventType string, metadata Document) error {
	metadataJSON, err := marshalDoc(metadata)
	if err != nil {
		return err
	}

	_, err = e.Exec(
		"INSERT INTO application_tracking (application_id, event_type, metadata, timestamp) VALUES (?, ?, ?, ?)",
		applicationID, eventType, metadataJSON, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to track event: %w", err)
	}
	return nil
}

// UpdateApplicationStatus appends a lifecycle event for the application.
// Status is derived from the timeline; the application row is not touched.
func (db *DB) UpdateApplicationStatus(applicationID int64, eventType string, metadata Document) error {
	if eventType == "" {
		return fmt.Errorf("%w: event_type is required", ErrValidation)
	}

	exists, err := applicationExists(db.conn, applicationID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: application %d", ErrNotFound, applicationID)
	}

	return trackEvent(db.conn, applicationID, eventType, metadata)
}

// GetApplicationTimeline returns all events for an application in
// chronological (insertion) order, starting with the creation event.
func (db *DB) GetApplicationTimeline(applicationID int64) ([]*TrackingEvent, error) {
	rows, err := db.conn.Query(
		`SELECT id, application_id, event_type, metadata, timestamp
		FROM application_tracking
		WHERE application_id = ?
		ORDER BY timestamp ASC, id ASC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}
	defer rows.Close()

	var events []*TrackingEvent
	for rows.Next() {
		var event TrackingEvent
		var metadataJSON sql.NullString
		if err := rows.Scan(&event.ID, &event.ApplicationID, &event.EventType, &metadataJSON, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if event.Metadata, err = unmarshalDoc(metadataJSON); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// ApplicationStatus returns the application's current status: the type of
// its most recent tracking event.
func (db *DB) ApplicationStatus(applicationID int64) (string, error) {
	var status string
	err := db.conn.QueryRow(
		`SELECT event_type FROM application_tracking
		WHERE application_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1`,
		applicationID,
	).Scan(&status)

	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: application %d", ErrNotFound, applicationID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get application status: %w", err)
	}

	return status, nil
}
