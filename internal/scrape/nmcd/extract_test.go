package nmcd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const detailFixture = `<div class="inmate-details">
  <span id="nmcd-number">88123</span>
  <span id="inmate-name">Rodriguez, Carlos</span>
  <span id="age">34</span>
  <span id="race">H</span>
  <span id="gender">M</span>
  <span id="height">5'10"</span>
  <span id="weight">180 lbs</span>
  <span id="hair">Black</span>
  <span id="eyes">Brown</span>
  <span id="facility">Central New Mexico Correctional Facility</span>
  <span id="status">In Custody</span>
</div>`

func TestParseDetail(t *testing.T) {
	t.Parallel()

	rec, err := parseDetail(detailFixture)
	require.NoError(t, err)
	require.Equal(t, "88123", rec.InmateNumber)
	require.Equal(t, "Rodriguez, Carlos", rec.Name)
	require.Equal(t, 34, rec.Age)
	require.Equal(t, "H", rec.Race)
	require.Equal(t, "M", rec.Sex)
	require.Equal(t, `5'10"`, rec.Height)
	require.Equal(t, "180 lbs", rec.Weight)
	require.Equal(t, "Black", rec.Hair)
	require.Equal(t, "Brown", rec.Eyes)
	require.Equal(t, "Central New Mexico Correctional Facility", rec.Location)
	require.Equal(t, "In Custody", rec.Status)
}

func TestParseDetailMissingFields(t *testing.T) {
	t.Parallel()

	rec, err := parseDetail(`<div class="inmate-details">
	  <span id="inmate-name">Doe, John</span>
	  <span id="age">unknown</span>
	</div>`)
	require.NoError(t, err)
	require.Equal(t, "Doe, John", rec.Name)
	require.Zero(t, rec.Age, "unparseable age defaults to zero")
	require.Empty(t, rec.InmateNumber)
	require.Empty(t, rec.Hair)
}

func TestParseResultRows(t *testing.T) {
	t.Parallel()

	rows, err := parseResultRows(`<table class="results">
	<tr><th>Name</th><th>Number</th><th></th></tr>
	<tr class="result-row"><td>Rodrigues, Carlos</td><td>88123</td><td><a class="view-details" href="#">View</a></td></tr>
	<tr class="result-row"><td>Rodriguez, Maria</td><td>88124</td><td><a class="view-details" href="#">View</a></td></tr>
	</table>`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Rodrigues, Carlos", rows[0].Name)
	require.Equal(t, 2, rows[0].pos, "header row occupies the first tr slot")
	require.Equal(t, 3, rows[1].pos)

	rows, err = parseResultRows(`<table class="results"><tr><th>Name</th></tr></table>`)
	require.NoError(t, err)
	require.Empty(t, rows)
}
