package resumes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2020, time.January, 1), d)

	d, err = ParseDate("2021-06-15T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2021, time.June, 15), d)

	_, err = ParseDate("15/06/2021")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDateJSON(t *testing.T) {
	var e Education
	require.NoError(t, json.Unmarshal([]byte(`{"institution":"X","startDate":"2020-01-01","endDate":null}`), &e))
	assert.Equal(t, NewDate(2020, time.January, 1), e.StartDate)
	assert.Nil(t, e.EndDate)

	out, err := json.Marshal(NewDate(2020, time.January, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `"2020-01-01"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`20200101`), &d))
}

func TestDateSQL(t *testing.T) {
	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = NewDate(2020, 1, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), v)

	var d Date
	require.NoError(t, d.Scan(time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2019, 3, 4), d)
	require.NoError(t, d.Scan("2018-07-08"))
	assert.Equal(t, NewDate(2018, 7, 8), d)
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}
