package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

func TestScaleCmd(t *testing.T) {
	env := setupServices(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "model.obj")
	writeTestFile(t, src, "v 1.0 2.0 3.0\n")

	out, err := execute(t, "scale", src, "--uncalibrated", "1", "--real", "2")

	require.NoError(t, err)
	scaled := filepath.Join(dir, "scaled_model.obj")
	assert.Contains(t, out, "Scaled mesh written to "+scaled)
	assert.Equal(t, "v 2.0 4.0 6.0\n", readTestFile(t, scaled))
	assert.Equal(t, scaled, env.pipeline.LastArtifact())

	stored, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, scaled, stored.LastArtifact)
}

func TestScaleCmd_DefaultsToLastArtifact(t *testing.T) {
	env := setupServices(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "mesh.obj")
	writeTestFile(t, src, "v 1.0 1.0 1.0\n")
	env.pipeline.SetLastArtifact(src)

	_, err := execute(t, "scale", "--uncalibrated", "2", "--real", "1", "--overwrite")

	require.NoError(t, err)
	assert.Equal(t, "v 0.5 0.5 0.5\n", readTestFile(t, src))
}

func TestScaleCmd_NoMesh(t *testing.T) {
	setupServices(t)

	_, err := execute(t, "scale", "--uncalibrated", "1", "--real", "2")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScaleCmd_FromViewer(t *testing.T) {
	setupServices(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "model.obj")
	writeTestFile(t, src, "v 12.5 25.0 0.0\n")

	out, err := execute(t, "scale", src, "--from-viewer", "--real", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Measurement: 12.5")
	assert.Equal(t, "v 1.0 2.0 0.0\n", readTestFile(t, filepath.Join(dir, "scaled_model.obj")))
}

func TestScaleCmd_RecordsFailure(t *testing.T) {
	env := setupServices(t)

	_, err := execute(t, "scale", filepath.Join(t.TempDir(), "missing.obj"), "--uncalibrated", "1", "--real", "2")
	require.Error(t, err)

	jobs, err := env.history.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobScale, jobs[0].Kind)
	assert.Equal(t, domain.JobFailed, jobs[0].Status)
}

func TestMeasureCmd(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "measure")

	require.NoError(t, err)
	assert.Contains(t, out, "Measurement: 12.5")
}

func TestRenameCmd(t *testing.T) {
	setupServices(t)
	parent := t.TempDir()
	root := filepath.Join(parent, "specimenA")
	writeTestFile(t, filepath.Join(root, "specimenA.obj"), "mtllib specimenA.mtl\n")
	writeTestFile(t, filepath.Join(root, "specimenA.mtl"), "newmtl mat\n")

	out, err := execute(t, "rename", root, "specimenA", "specimenB")

	require.NoError(t, err)
	assert.Contains(t, out, "0 failed")
	assert.Equal(t, "mtllib specimenB.mtl\n", readTestFile(t, filepath.Join(parent, "specimenB", "specimenB.obj")))
}

func TestStructureCmd(t *testing.T) {
	setupServices(t)
	base := t.TempDir()
	template := filepath.Join(t.TempDir(), "template.txt")
	writeTestFile(t, template, "Photos\n\nModels/Raw\n")

	out, err := execute(t, "structure", base, "--generate", "Femur", "--count", "2", "--template-file", template, "--line", "Notes")

	require.NoError(t, err)
	assert.Contains(t, out, "0 failed")
	for _, term := range []string{"Femur_I", "Femur_II"} {
		assert.DirExists(t, filepath.Join(base, term, "Photos"))
		assert.DirExists(t, filepath.Join(base, term, "Models", "Raw"))
		assert.DirExists(t, filepath.Join(base, term, "Notes"))
	}
}

func TestStructureCmd_NoTerms(t *testing.T) {
	setupServices(t)

	_, err := execute(t, "structure", t.TempDir(), "--line", "Photos")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStructureTermsCmd(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "structure", "terms", "Rib", "3")

	require.NoError(t, err)
	assert.Contains(t, out, "Rib_I\nRib_II\nRib_III\n")
}

func TestReadmeCmd(t *testing.T) {
	setupServices(t)
	dataset := t.TempDir()
	writeTestFile(t, filepath.Join(dataset, "model.obj"), "v 1 1 1\n")

	out, err := execute(t, "readme", dataset, "--field", "datasetTitle=Ribs of Bos taurus")

	require.NoError(t, err)
	readme := filepath.Join(dataset, "README.txt")
	assert.Contains(t, out, "Readme written to "+readme)

	content := readTestFile(t, readme)
	assert.Contains(t, content, "Dataset Title: Ribs of Bos taurus")
	assert.Contains(t, content, "Language: ENG")
	assert.Contains(t, content, "Licence: CC BY-NC 4.0")
}

func TestReadmeCmd_InvalidField(t *testing.T) {
	setupServices(t)

	_, err := execute(t, "readme", t.TempDir(), "--field", "datasetTitle")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPackCmd(t *testing.T) {
	env := setupServices(t)
	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "scan", "model.obj"), "v 1 1 1\n")
	outDir := t.TempDir()

	out, err := execute(t, "pack", filepath.Join(src, "scan"), "-n", "specimen.zip", "-o", outDir)

	require.NoError(t, err)
	dest := filepath.Join(outDir, "specimen.zip")
	assert.FileExists(t, dest)
	assert.Contains(t, out, "Archive written to "+dest)
	assert.FileExists(t, filepath.Join(src, "scan", "model.obj"))

	jobs, err := env.history.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobSucceeded, jobs[0].Status)
}

func TestPackCmd_ExistingArchive(t *testing.T) {
	setupServices(t)
	src := filepath.Join(t.TempDir(), "notes.txt")
	writeTestFile(t, src, "notes")
	outDir := t.TempDir()
	writeTestFile(t, filepath.Join(outDir, "archive.zip"), "old")

	_, err := execute(t, "pack", src, "-o", outDir)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = execute(t, "pack", src, "-o", outDir, "--force")
	require.NoError(t, err)
	assert.NotEqual(t, "old", readTestFile(t, filepath.Join(outDir, "archive.zip")))
}

func TestUploadCmd(t *testing.T) {
	setupServices(t)

	var gotKey, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(domain.DataverseKeyHeader)
		gotQuery = r.URL.RawQuery
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	file := filepath.Join(t.TempDir(), "specimen.zip")
	writeTestFile(t, file, "archive")

	out, err := execute(t, "upload", file, "-d", "doi:10.1/x", "--address", server.URL, "--token", "secret")

	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "persistentId=doi:10.1/x", gotQuery)
	assert.Contains(t, out, "Upload complete")
	assert.Contains(t, out, `{"status":"OK"}`)
}

func TestUploadCmd_TokenFromSettings(t *testing.T) {
	env := setupServices(t)

	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(domain.DataverseKeyHeader)
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	require.NoError(t, env.config.Set("dataverse.address", server.URL))
	require.NoError(t, env.config.Set("dataverse.token", "stored-token"))

	file := filepath.Join(t.TempDir(), "specimen.zip")
	writeTestFile(t, file, "archive")

	_, err := execute(t, "upload", file, "-d", "doi:10.1/x")

	require.NoError(t, err)
	assert.Equal(t, "stored-token", gotKey)
}

func TestUploadCmd_Rejected(t *testing.T) {
	setupServices(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	file := filepath.Join(t.TempDir(), "specimen.zip")
	writeTestFile(t, file, "archive")

	_, err := execute(t, "upload", file, "-d", "doi:10.1/x", "--address", server.URL, "--token", "bad")

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestUploadCmd_MissingToken(t *testing.T) {
	setupServices(t)
	file := filepath.Join(t.TempDir(), "specimen.zip")
	writeTestFile(t, file, "archive")

	_, err := execute(t, "upload", file, "-d", "doi:10.1/x", "--address", "https://dataverse.example.org")

	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestMirrorCmd_NotConfigured(t *testing.T) {
	setupServices(t)
	file := filepath.Join(t.TempDir(), "specimen.zip")
	writeTestFile(t, file, "archive")

	_, err := execute(t, "mirror", file)

	require.ErrorIs(t, err, domain.ErrMirrorNotConfigured)
}

func TestCaptureCmd(t *testing.T) {
	env := setupServices(t)
	photos := t.TempDir()
	output := t.TempDir()

	out, err := execute(t, "capture", photos, output, "-n", "femur")

	require.NoError(t, err)
	model := filepath.Join(output, "femur", "femur.obj")
	assert.FileExists(t, model)
	assert.NoFileExists(t, filepath.Join(output, "femur", "baked_mesh.usda"))
	assert.Contains(t, out, "Model written to "+model)
	assert.Equal(t, model, env.pipeline.LastArtifact())
}

func TestCaptureCmd_InvalidDetail(t *testing.T) {
	setupServices(t)

	_, err := execute(t, "capture", t.TempDir(), t.TempDir(), "-n", "femur", "--detail", "ultra")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCleanupCmd(t *testing.T) {
	setupServices(t)
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "model.usda"), "usda")
	writeTestFile(t, filepath.Join(dir, "model.obj"), "v 1 1 1\n")

	out, err := execute(t, "cleanup", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "0 failed")
	assert.NoFileExists(t, filepath.Join(dir, "model.usda"))
	assert.FileExists(t, filepath.Join(dir, "model.obj"))
}

func TestBoneSearchCmd(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "bone", "search", "fem")

	require.NoError(t, err)
	assert.Contains(t, out, "UBERON:0000981")
	assert.Contains(t, out, "UBERON0000981_femur")
}

func TestBoneCreateCmd(t *testing.T) {
	setupServices(t)
	parent := t.TempDir()
	photo := filepath.Join(t.TempDir(), "a.jpg")
	writeTestFile(t, photo, "jpeg")

	out, err := execute(t, "bone", "create", parent, "--id", "UBERON:0000981", "--label", "femur", "--import", photo)

	require.NoError(t, err)
	folder := filepath.Join(parent, "UBERON0000981_femur")
	assert.Contains(t, out, "Folder created: "+folder)
	assert.FileExists(t, filepath.Join(folder, "photos", "a.jpg"))
	assert.FileExists(t, photo)
}

func TestBoneCreateCmd_WithoutPhotos(t *testing.T) {
	setupServices(t)
	parent := t.TempDir()

	_, err := execute(t, "bone", "create", parent, "--id", "UBERON:0001474", "--label", "bone element", "--photos=false")

	require.NoError(t, err)
	folder := filepath.Join(parent, "UBERON0001474_bone_element")
	assert.DirExists(t, folder)
	assert.NoDirExists(t, filepath.Join(folder, "photos"))
}

func TestHistoryCmd(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No jobs recorded yet.")

	_, err = execute(t, "structure", "terms", "Rib", "1")
	require.NoError(t, err)
	_, err = execute(t, "bone", "create", t.TempDir(), "--id", "UBERON:0000981", "--label", "femur")
	require.NoError(t, err)

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "bone")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "UBERON0000981_femur")
}

func TestSettingsCmd_SetAndShow(t *testing.T) {
	setupServices(t)

	_, err := execute(t, "settings", "set", "dataverse.address", "https://dataverse.example.org")
	require.NoError(t, err)
	_, err = execute(t, "settings", "set", "dataverse.token", "abcd1234efgh5678")
	require.NoError(t, err)

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Address: https://dataverse.example.org")
	assert.Contains(t, out, "Token: abcd...5678")
	assert.NotContains(t, out, "abcd1234efgh5678")
	assert.Contains(t, out, "Default name: archive.zip")
	assert.Contains(t, out, "Status: not configured")
}

func TestSettingsCmd_SetUnknownKey(t *testing.T) {
	setupServices(t)

	_, err := execute(t, "settings", "set", "nope", "value")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsCmd_Token(t *testing.T) {
	env := setupServices(t)

	out, err := executeWithInput(t, "my-secret-token\n", "settings", "token")

	require.NoError(t, err)
	assert.Contains(t, out, "Token saved: my-s...oken")
	assert.Equal(t, "my-secret-token", env.config.GetString("dataverse.token"))
}

func TestSettingsCmd_EmptyToken(t *testing.T) {
	setupServices(t)

	_, err := executeWithInput(t, "\n", "settings", "token")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsCmd_Keys(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "archive.default_name\n")
	assert.Contains(t, out, "capture.measurement_file\n")
	assert.Contains(t, out, "dataverse.token\n")
}

func TestSettingsCmd_Path(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "settings", "path")

	require.NoError(t, err)
	assert.Contains(t, out, ":memory:")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("short"))
	assert.Equal(t, "abcd...wxyz", maskToken("abcdefghijklmnopqrstuvwxyz"))
}

func TestMoveFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.zip")
	writeTestFile(t, src, "zip")
	dst := filepath.Join(t.TempDir(), "nested", "b.zip")

	require.NoError(t, moveFile(src, dst))

	assert.Equal(t, "zip", readTestFile(t, dst))
	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}
