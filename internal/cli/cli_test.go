package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/haras/internal/backup"
	"github.com/mesh-intelligence/haras/internal/share"
	"github.com/mesh-intelligence/haras/pkg/types"
)

// testEnv is one isolated installation: its own config and data dirs.
type testEnv struct {
	configDir string
	dataDir   string
	extra     []string
}

func newTestEnv(t *testing.T, extra ...string) testEnv {
	t.Helper()
	for _, key := range []string{
		"HARAS_CONFIG_DIR", "HARAS_DATA_DIR", "HARAS_EXPORT_DIR", "HARAS_BACKEND",
		"HARAS_LOG_LEVEL", "HARAS_LOG_FORMAT", "HARAS_EXPORT_TARGET", "HARAS_METRICS_TEXTFILE",
	} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	return testEnv{
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
		extra:     extra,
	}
}

func (e testEnv) runStdin(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, e.extra...)
	full = append(full, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (e testEnv) run(args ...string) (int, string, string) {
	return e.runStdin("", args...)
}

func (e testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	code, stdout, stderr := e.run(args...)
	require.Equal(t, exitSuccess, code, "haras %v: %s", args, stderr)
	return stdout
}

func (e testEnv) addHorse(t *testing.T, args ...string) types.Horse {
	t.Helper()
	out := e.mustRun(t, append([]string{"--json", "add"}, args...)...)
	var h types.Horse
	require.NoError(t, json.Unmarshal([]byte(out), &h))
	return h
}

func (e testEnv) listHorses(t *testing.T) []types.Horse {
	t.Helper()
	out := e.mustRun(t, "--json", "list")
	horses, err := backup.ValidateImportDocument([]byte(out))
	require.NoError(t, err)
	return horses
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "haras dev\n", env.mustRun(t, "version"))
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "init")
	assert.Contains(t, out, "Configuração criada:")

	data, err := os.ReadFile(filepath.Join(env.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "data_dir: "+env.dataDir)
	assert.Contains(t, string(data), "target: fs")
	assert.FileExists(t, filepath.Join(env.dataDir, "haras.db"))

	out = env.mustRun(t, "init")
	assert.Contains(t, out, "Configuração existente:")
}

func TestInit_JSONLBackend(t *testing.T) {
	env := newTestEnv(t, "--backend", "jsonl")
	env.mustRun(t, "init")
	assert.FileExists(t, filepath.Join(env.dataDir, "horses.jsonl"))
}

func TestAddListShow(t *testing.T) {
	env := newTestEnv(t)

	trovao := env.addHorse(t, "--name", "Trovão", "--birth-date", "2012-03-02", "--gender", "m",
		"--chip", "982-000-411")
	estrela := env.addHorse(t, "--name", "estrela", "--birth-date", "2015-08-20", "--gender", "Fêmea",
		"--father", "Trovão", "--birth-place", "Haras Boa Vista")

	assert.NotEmpty(t, trovao.ID)
	assert.Equal(t, "982000411", trovao.Chip)
	assert.Equal(t, types.GenderFemale, estrela.Gender)

	horses := env.listHorses(t)
	require.Len(t, horses, 2)
	assert.Equal(t, estrela.ID, horses[0].ID, "sorted by name ignoring case")
	assert.Equal(t, trovao.ID, horses[1].ID)

	out := env.mustRun(t, "list")
	assert.Contains(t, out, "NOME")
	assert.Less(t, strings.Index(out, "estrela"), strings.Index(out, "Trovão"))

	out = env.mustRun(t, "list", "--males")
	assert.Contains(t, out, "Trovão")
	assert.NotContains(t, out, "estrela")

	out = env.mustRun(t, "show", estrela.ID)
	assert.Contains(t, out, "20/08/2015")
	assert.Contains(t, out, "Haras Boa Vista")
	assert.Contains(t, out, "Nenhum registro de acasalamento.")

	out = env.mustRun(t, "show", trovao.ID)
	assert.NotContains(t, out, "Histórico de Acasalamento")
}

func TestList_Empty(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "Nenhum cavalo cadastrado.\n", env.mustRun(t, "list"))
	assert.Equal(t, "[]\n", env.mustRun(t, "--json", "list"))
}

func TestAdd_Rejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing name", []string{"--birth-date", "2020-01-01", "--gender", "m"}, msgInvalidName},
		{"blank name", []string{"--name", "  ", "--birth-date", "2020-01-01", "--gender", "m"}, msgInvalidName},
		{"missing birth date", []string{"--name", "Raio", "--gender", "m"}, msgInvalidDate},
		{"bad birth date", []string{"--name", "Raio", "--birth-date", "01/02/2020", "--gender", "m"}, msgInvalidDate},
		{"bad gender", []string{"--name", "Raio", "--birth-date", "2020-01-01", "--gender", "x"}, msgInvalidGender},
		{"missing picture", []string{"--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m", "--picture", "nope.png"}, "Não foi possível ler a foto."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			code, _, stderr := env.run(append([]string{"add"}, tt.args...)...)
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, stderr, tt.want)
			assert.Empty(t, env.listHorses(t))
		})
	}
}

func TestAdd_Picture(t *testing.T) {
	env := newTestEnv(t)
	pic := filepath.Join(t.TempDir(), "foto.png")
	require.NoError(t, os.WriteFile(pic, []byte{0x89, 'P', 'N', 'G'}, 0o644))

	h := env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m", "--picture", pic)
	assert.True(t, strings.HasPrefix(h.Picture, "data:image/png;base64,"))

	env.mustRun(t, "edit", h.ID, "--no-picture")
	out := env.mustRun(t, "--json", "show", h.ID)
	assert.NotContains(t, out, "picture")
}

func TestEdit_ChangesOnlyGivenFields(t *testing.T) {
	env := newTestEnv(t)
	h := env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m",
		"--chip", "123", "--mother", "Lua")

	env.mustRun(t, "edit", h.ID, "--name", "Raio de Sol", "--chip", "")

	horses := env.listHorses(t)
	require.Len(t, horses, 1)
	got := horses[0]
	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, "Raio de Sol", got.Name)
	assert.Equal(t, "Lua", got.Mother)
	assert.Empty(t, got.Chip)
	assert.Equal(t, h.BirthDate, got.BirthDate)
}

func TestEdit_NotFound(t *testing.T) {
	env := newTestEnv(t)
	code, _, stderr := env.run("edit", "missing", "--name", "X")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, msgNotFound)
}

func TestMate_SnapshotsMaleName(t *testing.T) {
	env := newTestEnv(t)
	mare := env.addHorse(t, "--name", "Estrela", "--birth-date", "2015-08-20", "--gender", "f")

	code, _, stderr := env.run("mate", mare.ID)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "Nenhum macho registrado.")

	stallion := env.addHorse(t, "--name", "Relâmpago", "--birth-date", "2010-01-01", "--gender", "m")

	code, _, stderr = env.run("mate", mare.ID)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, stallion.ID)

	out := env.mustRun(t, "mate", mare.ID, "--male", stallion.ID, "--date", "2024-03-01")
	assert.Contains(t, out, "Relâmpago em 01/03/2024")
	env.mustRun(t, "mate", mare.ID, "--male", stallion.ID, "--date", "2024-09-10")

	env.mustRun(t, "edit", stallion.ID, "--name", "Relâmpago II")

	out = env.mustRun(t, "--json", "show", mare.ID)
	var got types.Horse
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.MatingHistory, 2)
	assert.Equal(t, "Relâmpago", got.MatingHistory[0].MaleName)
	assert.Equal(t, stallion.ID, got.MatingHistory[0].MaleID)

	out = env.mustRun(t, "show", mare.ID)
	assert.Less(t, strings.Index(out, "10/09/2024"), strings.Index(out, "01/03/2024"), "newest first")
}

func TestMate_Rejected(t *testing.T) {
	env := newTestEnv(t)
	stallion := env.addHorse(t, "--name", "Relâmpago", "--birth-date", "2010-01-01", "--gender", "m")
	mare := env.addHorse(t, "--name", "Estrela", "--birth-date", "2015-08-20", "--gender", "f")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"female missing", []string{"mate", "nope", "--male", stallion.ID}, msgNotFound},
		{"not a female", []string{"mate", stallion.ID, "--male", stallion.ID}, msgNotFemale},
		{"male is a female", []string{"mate", mare.ID, "--male", mare.ID}, msgInvalidMale},
		{"bad date", []string{"mate", mare.ID, "--male", stallion.ID, "--date", "ontem"}, msgInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := env.run(tt.args...)
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	h := env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m")

	code, _, stderr := env.run("delete", h.ID)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "--yes")
	assert.Len(t, env.listHorses(t), 1)

	out := env.mustRun(t, "delete", h.ID, "--yes")
	assert.Contains(t, out, "Cavalo excluído: Raio")
	assert.Empty(t, env.listHorses(t))

	code, _, stderr = env.run("delete", h.ID, "--yes")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, msgNotFound)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := newTestEnv(t, "--backend", "jsonl")
	mare := src.addHorse(t, "--name", "Estrela", "--birth-date", "2015-08-20", "--gender", "f")
	stallion := src.addHorse(t, "--name", "Relâmpago", "--birth-date", "2010-01-01", "--gender", "m")
	src.mustRun(t, "mate", mare.ID, "--male", stallion.ID, "--date", "2024-03-01")

	exportDir := t.TempDir()
	out := src.mustRun(t, "export", "--dir", exportDir)
	file := filepath.Join(exportDir, backup.FileName(time.Now()))
	assert.Contains(t, out, file)
	require.FileExists(t, file)

	dst := newTestEnv(t)
	dst.addHorse(t, "--name", "Descartado", "--birth-date", "2001-01-01", "--gender", "m")

	code, _, stderr := dst.run("import", file)
	assert.Equal(t, exitUserError, code, "import without --yes")
	assert.Contains(t, stderr, "--yes")

	out = dst.mustRun(t, "import", file, "--yes")
	assert.Contains(t, out, "Dados importados com sucesso!")
	assert.Contains(t, out, "Cavalos carregados: 2.")

	assert.Equal(t, src.listHorses(t), dst.listHorses(t))
}

func TestExport_Stdout(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "[]\n", env.mustRun(t, "export", "--stdout"))

	h := env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m")
	out := env.mustRun(t, "export", "--stdout")
	assert.True(t, strings.HasPrefix(out, "[\n  {\n    \"id\": \""+h.ID+"\""))
}

func TestExport_ConfiguredDir(t *testing.T) {
	env := newTestEnv(t)
	exportDir := t.TempDir()
	t.Setenv("HARAS_EXPORT_DIR", exportDir)

	env.mustRun(t, "export")
	assert.FileExists(t, filepath.Join(exportDir, backup.FileName(time.Now())))
}

func TestImport_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", "{not json", msgInvalidJSON},
		{"object", `{"id":"a"}`, msgInvalidSchema},
		{"first element without id", `[{"name":"Raio"}]`, msgInvalidSchema},
		{"first element with empty id", `[{"id":""}]`, msgInvalidSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			h := env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m")

			code, _, stderr := env.runStdin(tt.input, "import", "-", "--yes")
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, stderr, tt.want)

			horses := env.listHorses(t)
			require.Len(t, horses, 1)
			assert.Equal(t, h.ID, horses[0].ID)
		})
	}
}

func TestImport_Stdin(t *testing.T) {
	env := newTestEnv(t)
	env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m")

	doc := `[{"id":"h1","name":"Lua","birthDate":"2019-05-05","gender":"Fêmea","matingHistory":[]}]`
	out := env.mustRunStdin(t, doc, "import", "-", "--yes")
	assert.Contains(t, out, "Cavalos carregados: 1.")

	horses := env.listHorses(t)
	require.Len(t, horses, 1)
	assert.Equal(t, "h1", horses[0].ID)

	out = env.mustRunStdin(t, "[]", "import", "-", "--yes")
	assert.Contains(t, out, "Cavalos carregados: 0.")
	assert.Empty(t, env.listHorses(t))
}

func (e testEnv) mustRunStdin(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	code, stdout, stderr := e.runStdin(stdin, args...)
	require.Equal(t, exitSuccess, code, "haras %v: %s", args, stderr)
	return stdout
}

func TestImport_DuplicateIDsKeepData(t *testing.T) {
	env := newTestEnv(t)
	env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m")

	doc := `[{"id":"a","name":"A","birthDate":"2019-05-05","gender":"Macho"},` +
		`{"id":"a","name":"B","birthDate":"2019-05-05","gender":"Macho"}]`
	code, _, stderr := env.runStdin(doc, "import", "-", "--yes")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, msgInvalidSchema)

	horses := env.listHorses(t)
	require.Len(t, horses, 1)
	assert.Equal(t, "Raio", horses[0].Name)
}

func TestImport_Usage(t *testing.T) {
	env := newTestEnv(t)

	code, _, stderr := env.run("import", "--yes")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "--from-target")

	code, _, stderr = env.run("import", filepath.Join(t.TempDir(), "missing.json"), "--yes")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, msgFileNotFound)

	typo := filepath.Join(t.TempDir(), "bakcups")
	code, _, stderr = env.run("import", filepath.Join(typo, "haras_backup_2024-01-01.json"), "--yes")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, msgFileNotFound)
	assert.NoDirExists(t, typo)
}

func TestImport_FromTarget(t *testing.T) {
	env := newTestEnv(t)
	exportDir := t.TempDir()
	t.Setenv("HARAS_EXPORT_DIR", exportDir)

	h := env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m")
	env.mustRun(t, "export")
	env.mustRun(t, "delete", h.ID, "--yes")
	require.Empty(t, env.listHorses(t))

	env.mustRun(t, "import", "--from-target", backup.FileName(time.Now()), "--yes")
	horses := env.listHorses(t)
	require.Len(t, horses, 1)
	assert.Equal(t, h.ID, horses[0].ID)
}

func TestStorageUnavailable(t *testing.T) {
	env := newTestEnv(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	env.dataDir = blocker

	code, _, stderr := env.run("list")
	assert.Equal(t, exitSysError, code)
	assert.Contains(t, stderr, msgStorage)
}

func TestUnknownBackend(t *testing.T) {
	env := newTestEnv(t, "--backend", "postgres")
	code, _, stderr := env.run("list")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "Backend inválido")
}

func TestConfigFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	metricsFile := filepath.Join(t.TempDir(), "haras.prom")
	cfg := fmt.Sprintf("backend: jsonl\nlog_level: error\nmetrics:\n  textfile: %s\n", metricsFile)
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte(cfg), 0o644))

	env.addHorse(t, "--name", "Raio", "--birth-date", "2020-01-01", "--gender", "m")
	assert.FileExists(t, filepath.Join(env.dataDir, "horses.jsonl"))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `haras_store_operations_total{operation="insert",result="ok"} 1`)
	assert.Contains(t, string(data), "haras_horses 1")
}

func TestConfigFile_EnvOverridesBackend(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte("backend: sqlite\n"), 0o644))
	t.Setenv("HARAS_BACKEND", "jsonl")

	env.mustRun(t, "list")
	assert.FileExists(t, filepath.Join(env.dataDir, "horses.jsonl"))
}

func TestInvalidLogLevel(t *testing.T) {
	env := newTestEnv(t, "--log-level", "loud")
	code, _, stderr := env.run("list")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "Configuração inválida")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"exit error", userError("custom", nil), exitUserError, "custom"},
		{"wrapped exit error", fmt.Errorf("outer: %w", sysError("disk", errors.New("x"))), exitSysError, "disk"},
		{"storage", fmt.Errorf("%w: boom", types.ErrStorageWrite), exitSysError, msgStorage},
		{"not ready", types.ErrNotReady, exitSysError, msgStorage},
		{"invalid json", types.ErrInvalidJSON, exitUserError, msgInvalidJSON},
		{"invalid schema", fmt.Errorf("element 3: %w", types.ErrInvalidSchema), exitUserError, msgInvalidSchema},
		{"not found", types.ErrNotFound, exitUserError, msgNotFound},
		{"file not found", fmt.Errorf("reading backup x: %w", share.ErrNotFound), exitUserError, msgFileNotFound},
		{"usage", errors.New(`unknown command "foo" for "haras"`), exitUserError, `unknown command "foo" for "haras"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := describe(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
