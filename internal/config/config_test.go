package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growlab/pkg/contracts/domain"
)

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "_환경데이터.csv", cfg.Data.EnvironmentSuffix)
	assert.Equal(t, "4개교_생육결과데이터.xlsx", cfg.Data.GrowthWorkbook)

	require.Len(t, cfg.Data.Schools, 4)
	set := cfg.SchoolSet()
	ec, ok := set.TargetEC("하늘고")
	require.True(t, ok)
	assert.Equal(t, 2.0, ec)
}

func TestLoadFromFile_YAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9191
data:
  dir: /srv/experiment
  schools:
    - name: 가고
      target_ec: 0.5
    - name: 나고
      target_ec: 1.5
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "/srv/experiment", cfg.Data.Dir)
	require.Len(t, cfg.Data.Schools, 2)
	assert.Equal(t, domain.SchoolID("가고"), cfg.Data.Schools[0].ID)
}

func TestLoadFromFile_MissingNamedFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_DuplicateSchool(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	cfg.Data.Schools = append(cfg.Data.Schools, domain.School{ID: "송도고", TargetEC: 3.0})
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate school")
}

func TestValidate_BadTargetEC(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	cfg.Data.Schools[0].TargetEC = 0
	assert.Error(t, cfg.Validate())
}

func TestSchoolSet_OrderedByTargetEC(t *testing.T) {
	set := domain.NewSchoolSet([]domain.School{
		{ID: "동산고", TargetEC: 8.0},
		{ID: "송도고", TargetEC: 1.0},
	})

	all := set.All()
	require.Len(t, all, 2)
	assert.Equal(t, domain.SchoolID("송도고"), all[0].ID)
	assert.Equal(t, domain.SchoolID("동산고"), all[1].ID)
}
