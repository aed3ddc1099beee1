package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

func TestStoreErrorClassification(t *testing.T) {
	appErr := appErrors.FromError(storeError(sql.ErrNoRows, "report not found"))
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "report not found", appErr.Message)

	appErr = appErrors.FromError(storeError(errors.New("dial tcp: connection refused"), "report not found"))
	require.NotNil(t, appErr)
	assert.Equal(t, "STORE_UNAVAILABLE", appErr.Code)
	assert.Equal(t, 503, appErr.Status)
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"TopicTaught":           "topic_taught",
		"ClassID":               "class_id",
		"LecturerID":            "lecturer_id",
		"WeekOfReporting":       "week_of_reporting",
		"ActualStudentsPresent": "actual_students_present",
		"Response":              "response",
	}
	for in, want := range cases {
		assert.Equal(t, want, snakeCase(in), in)
	}
}
