package exporter

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"growlab/pkg/contracts/domain"
)

func TestEncodeGrowthWorkbookRoundTrip(t *testing.T) {
	table := &domain.GrowthTable{
		Rows: []domain.GrowthRecord{
			{School: "송도고", TargetEC: 1.0, ECKnown: true, FreshWeightGrams: 10.2, LeafCount: 8, ShootLengthMm: 120, Extra: map[string]string{"개체번호": "1"}},
			{School: "송도고", TargetEC: 1.0, ECKnown: true, FreshWeightGrams: 11.0, LeafCount: 9, ShootLengthMm: math.NaN(), Extra: map[string]string{"개체번호": "2"}},
			{School: "하늘고", TargetEC: 2.0, ECKnown: true, FreshWeightGrams: 15.7, LeafCount: 11, ShootLengthMm: 150},
		},
	}

	data, err := EncodeGrowthWorkbook(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"송도고", "하늘고"}, f.GetSheetList())

	rows, err := f.GetRows("송도고")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"생중량(g)", "잎 수(장)", "지상부 길이(mm)", "개체번호"}, rows[0])
	assert.Equal(t, "10.2", rows[0+1][0])
	assert.Equal(t, "2", rows[2][3])
	// NaN shoot length came back as an empty cell.
	if len(rows[2]) > 2 {
		assert.Equal(t, "", rows[2][2])
	}

	skyRows, err := f.GetRows("하늘고")
	require.NoError(t, err)
	require.Len(t, skyRows, 2)
	assert.Equal(t, "15.7", skyRows[1][0])
}

func TestEncodeGrowthWorkbookEmptyTable(t *testing.T) {
	data, err := EncodeGrowthWorkbook(&domain.GrowthTable{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
