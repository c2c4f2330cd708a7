package adset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/sellerdash/internal/models"
)

const payload = `{"adsetPerformance":[
	{"id":1,"name":"Zeta","spend":"200","revenue":1000,"totalOrders":10,"deliveredOrders":4,"rtoOrders":1,"cancelledOrders":1,
	 "terms":[
		{"id":"t1","name":"shoes","spend":50,"revenue":300,"totalOrders":3,"deliveredOrders":3,"deliveredRevenue":250},
		{"id":"t2","name":"boots","spend":0,"revenue":0,"totalOrders":0}
	 ]},
	{"id":2,"name":"alpha","spend":100,"revenue":100,"totalOrders":2,"deliveredOrders":2,"deliveredRevenue":0},
	{"id":3,"name":"Beta","spend":"abc","revenue":null,"totalOrders":"5","deliveredOrders":1,"rtoOrders":2}
]}`

func decode(t *testing.T) []models.AdsetPerformanceRow {
	t.Helper()
	var resp models.AdsetPerformanceResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	return resp.AdsetPerformance
}

func names(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestRollup(t *testing.T) {
	rows := Rollup(decode(t))
	require.Len(t, rows, 3)

	z := rows[0]
	assert.Equal(t, "1", z.ID)
	assert.InDelta(t, 400.0, z.DeliveredRevenue, 1e-9)
	assert.InDelta(t, 2.0, z.ROAS, 1e-9)
	assert.InDelta(t, 20.0, z.CPO, 1e-9)
	assert.InDelta(t, 2.0/6, z.RTOPercent, 1e-9)

	// los términos se derivan por separado y no alteran al padre
	require.Len(t, z.Terms, 2)
	assert.InDelta(t, 250.0, z.Terms[0].DeliveredRevenue, 1e-9)
	assert.InDelta(t, 5.0, z.Terms[0].ROAS, 1e-9)
	assert.Equal(t, Metrics{ID: "t2", Name: "boots"}, z.Terms[1])
	assert.Equal(t, 200.0, z.Spend)

	// 0 explícito no se imputa
	assert.Zero(t, rows[1].DeliveredRevenue)
	assert.Zero(t, rows[1].ROAS)

	b := rows[2]
	assert.Zero(t, b.Spend)
	assert.Zero(t, b.CPO)
	assert.Equal(t, 5.0, b.TotalOrders)
	assert.NotNil(t, b.Terms)
	assert.Empty(t, b.Terms)
}

func TestBuildSummary(t *testing.T) {
	assert.Nil(t, BuildSummary(nil))

	s := BuildSummary(Rollup(decode(t)))
	require.NotNil(t, s)
	assert.InDelta(t, 300.0, s.Spend, 1e-9)
	assert.Equal(t, 17, s.TotalOrders)
	assert.Equal(t, 7, s.DeliveredOrders)
	assert.Equal(t, 3, s.RTOOrders)
	assert.Equal(t, 1, s.CancelledOrders)
	// 400 + 0 + 0*(1/5)
	assert.InDelta(t, 400.0, s.DeliveredRevenue, 1e-9)
	assert.InDelta(t, 400.0/300, s.ROAS, 1e-9)
}

func TestSortByNameIsCaseInsensitive(t *testing.T) {
	rows := Rollup(decode(t))
	assert.Equal(t, []string{"alpha", "Beta", "Zeta"}, names(Sort(rows, KeyName, models.SortAsc)))
	assert.Equal(t, []string{"Zeta", "Beta", "alpha"}, names(Sort(rows, KeyName, models.SortDesc)))
	// la entrada no cambia
	assert.Equal(t, []string{"Zeta", "alpha", "Beta"}, names(rows))
}

func TestSortNumeric(t *testing.T) {
	rows := Rollup(decode(t))

	asc := Sort(rows, KeySpend, models.SortAsc)
	assert.Equal(t, []string{"Beta", "alpha", "Zeta"}, names(asc))
	desc := Sort(rows, KeySpend, models.SortDesc)
	assert.Equal(t, []string{"Zeta", "alpha", "Beta"}, names(desc))

	// los términos siguen a su padre
	assert.Len(t, desc[0].Terms, 2)

	for _, key := range []string{KeyROAS, KeyRTOPercent, KeyCPO, KeyTotalOrders} {
		a := Sort(rows, key, models.SortAsc)
		d := Sort(rows, key, models.SortDesc)
		for i := 1; i < len(a); i++ {
			assert.LessOrEqual(t, a[i-1].Value(key), a[i].Value(key), key)
			assert.GreaterOrEqual(t, d[i-1].Value(key), d[i].Value(key), key)
		}
	}
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	rows := Rollup(decode(t))
	assert.Equal(t, names(rows), names(Sort(rows, "bogus", models.SortDesc)))
	assert.Equal(t, names(rows), names(Sort(rows, "", models.SortAsc)))
}
