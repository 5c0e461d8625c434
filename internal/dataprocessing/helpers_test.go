package dataprocessing

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"growlab/pkg/contracts/domain"
)

const (
	testEnvSuffix      = "_환경데이터.csv"
	testGrowthWorkbook = "4개교_생육결과데이터.xlsx"
)

func testSchools() *domain.SchoolSet {
	return domain.NewSchoolSet([]domain.School{
		{ID: "송도고", TargetEC: 1.0},
		{ID: "하늘고", TargetEC: 2.0},
		{ID: "아라고", TargetEC: 4.0},
		{ID: "동산고", TargetEC: 8.0},
	})
}

func newTestLoader(t *testing.T, dataDir string) *Loader {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewLoader(dataDir, testEnvSuffix, testGrowthWorkbook, testSchools(), logger)
}

func writeEnvironmentCSV(t *testing.T, dir string, school string, content string) {
	t.Helper()
	path := filepath.Join(dir, school+testEnvSuffix)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
