package service

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"ps-portal/internal/dto"
	"ps-portal/internal/models"
	"ps-portal/internal/repository"
	"ps-portal/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testMaxFileSize = 1 << 20

type upload struct {
	field       string
	name        string
	contentType string
	content     string
}

// fileHeaders 通过真实的 multipart 编解码构造 FileHeader
func fileHeaders(t *testing.T, uploads ...upload) map[string][]*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, u.field, u.name))
		if u.contentType != "" {
			h.Set("Content-Type", u.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(part, u.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File
}

func logoHeader(t *testing.T, name string) *multipart.FileHeader {
	return fileHeaders(t, upload{field: "logo", name: name, contentType: "image/png", content: "\x89PNG\r\n\x1a\nlogo"})["logo"][0]
}

func validForm() dto.SubmitForm {
	return dto.SubmitForm{
		OrgName:       "Acme",
		SpocName:      "A B",
		SpocContact:   "+1 555",
		ContactEmail:  "a@acme.com",
		PSTitle:       "X",
		PSDescription: "Y",
	}
}

type testEnv struct {
	db          *gorm.DB
	fs          afero.Fs
	store       *storage.LocalStore
	submissions *repository.SubmissionRepository
	documents   *repository.DocumentRepository
	intake      *FileIntake
	submit      *SubmissionService
	query       *QueryService
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := models.OpenDB(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	fs := afero.NewMemMapFs()
	store, err := storage.NewLocalStore(fs, "/uploads")
	require.NoError(t, err)

	logger := newTestLogger()
	env := &testEnv{
		db:          db,
		fs:          fs,
		store:       store,
		submissions: repository.NewSubmissionRepository(db),
		documents:   repository.NewDocumentRepository(db),
	}
	env.intake = NewFileIntake(store, testMaxFileSize, 10, logger)
	env.submit = NewSubmissionService(env.submissions, env.intake, logger)
	env.query = NewQueryService(env.submissions, env.documents, store, logger)
	return env
}

// storedFiles 返回上传目录中的全部文件(不含目录)
func storedFiles(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	var files []string
	err := afero.Walk(fs, "/uploads", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
