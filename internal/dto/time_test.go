package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeDateOnly(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-12"`), &ft))
	require.NotNil(t, ft.Ptr())
	assert.Equal(t, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), *ft.Ptr())
}

func TestFlexTimeRFC3339(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-12T18:30:00+02:00"`), &ft))
	require.NotNil(t, ft.Ptr())
	assert.True(t, ft.Ptr().Equal(time.Date(2026, 9, 12, 16, 30, 0, 0, time.UTC)))
}

func TestFlexTimeNoZone(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-12T18:30:00"`), &ft))
	require.NotNil(t, ft.Ptr())
	assert.Equal(t, 18, ft.Ptr().Hour())
}

func TestFlexTimeEmpty(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`null`), &ft))
	assert.Nil(t, ft.Ptr())

	require.NoError(t, json.Unmarshal([]byte(`"  "`), &ft))
	assert.Nil(t, ft.Ptr())
}

func TestFlexTimeGarbage(t *testing.T) {
	var ft FlexTime
	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &ft))
	assert.Error(t, json.Unmarshal([]byte(`12345`), &ft))
}
