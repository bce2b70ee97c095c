package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"ps-portal/internal/dto"
	"ps-portal/internal/models"
	"ps-portal/internal/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("minimal submission with logo only", func(t *testing.T) {
		env := newTestEnv(t)

		result, err := env.submit.Submit(ctx, validForm(), logoHeader(t, "logo.png"), nil)
		require.NoError(t, err)
		assert.Equal(t, uint(1), result.SubmissionID)
		assert.Equal(t, 0, result.DocumentsProcessed)

		detail, err := env.query.Get(ctx, result.SubmissionID)
		require.NoError(t, err)
		sub := detail.Submission
		assert.Equal(t, models.StatusPending, sub.Status)
		assert.Equal(t, "Acme", sub.OrgName)
		assert.Equal(t, "A B", sub.SpocName)
		assert.Equal(t, "+1 555", sub.SpocContact)
		assert.Equal(t, "a@acme.com", sub.ContactEmail)
		assert.Equal(t, "X", sub.PSTitle)
		assert.Equal(t, "Y", sub.PSDescription)
		assert.Nil(t, sub.Domain)
		assert.Nil(t, sub.DatasetLink)
		assert.Equal(t, "logo.png", sub.LogoOriginalName)
		assert.Equal(t, int64(len("\x89PNG\r\n\x1a\nlogo")), sub.LogoFileSize)
		assert.True(t, strings.HasPrefix(sub.LogoFilename, "logo_"))
		assert.True(t, strings.HasSuffix(sub.LogoFilename, ".png"))
		assert.Empty(t, detail.Documents)

		ok, err := env.store.Exists(storage.AreaLogos, sub.LogoFilename)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("fields are trimmed before saving", func(t *testing.T) {
		env := newTestEnv(t)

		form := dto.SubmitForm{
			OrgName:       "  Acme  ",
			SpocName:      "\tA B",
			SpocContact:   "+1 555 ",
			ContactEmail:  " a@acme.com",
			PSTitle:       " X ",
			PSDescription: "Y\n",
			Domain:        "  AI/ML ",
			DatasetLink:   "   ",
		}
		result, err := env.submit.Submit(ctx, form, logoHeader(t, "LOGO.JPG"), nil)
		require.NoError(t, err)

		detail, err := env.query.Get(ctx, result.SubmissionID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", detail.Submission.OrgName)
		assert.Equal(t, "A B", detail.Submission.SpocName)
		assert.Equal(t, "Y", detail.Submission.PSDescription)
		require.NotNil(t, detail.Submission.Domain)
		assert.Equal(t, "AI/ML", *detail.Submission.Domain)
		assert.Nil(t, detail.Submission.DatasetLink)
		assert.True(t, strings.HasSuffix(detail.Submission.LogoFilename, ".jpg"))
	})

	t.Run("reports every missing field", func(t *testing.T) {
		env := newTestEnv(t)

		form := dto.SubmitForm{OrgName: "Acme", SpocName: "   ", PSTitle: "X"}
		_, err := env.submit.Submit(ctx, form, logoHeader(t, "logo.png"), nil)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"spocName", "spocContact", "contactEmail", "psDescription"}, validationErr.Fields)
		assert.Equal(t, "Missing required fields: spocName, spocContact, contactEmail, psDescription", validationErr.Message)

		assert.Zero(t, countRows(t, env.db, &models.Submission{}))
		assert.Empty(t, storedFiles(t, env.fs))
	})

	t.Run("logo is required", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.submit.Submit(ctx, validForm(), nil, nil)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Organization logo is required", validationErr.Message)
		assert.Zero(t, countRows(t, env.db, &models.Submission{}))
		assert.Empty(t, storedFiles(t, env.fs))
	})

	t.Run("empty logo is treated as missing", func(t *testing.T) {
		env := newTestEnv(t)

		empty := fileHeaders(t, upload{field: "logo", name: "logo.png"})["logo"][0]
		_, err := env.submit.Submit(ctx, validForm(), empty, nil)

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("disallowed logo type", func(t *testing.T) {
		env := newTestEnv(t)

		docs := fileHeaders(t, upload{field: "documents", name: "a.pdf", content: "%PDF-1.4"})["documents"]
		_, err := env.submit.Submit(ctx, validForm(), logoHeader(t, "logo.svg"), docs)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Message, "Invalid logo file type")
		assert.Zero(t, countRows(t, env.db, &models.Submission{}))
		assert.Zero(t, countRows(t, env.db, &models.Document{}))
		assert.Empty(t, storedFiles(t, env.fs))
	})

	t.Run("oversize logo", func(t *testing.T) {
		env := newTestEnv(t)
		env.intake.maxFileSize = 4

		_, err := env.submit.Submit(ctx, validForm(), logoHeader(t, "logo.png"), nil)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Message, "size limit")
		assert.Empty(t, storedFiles(t, env.fs))
	})

	t.Run("too many documents", func(t *testing.T) {
		env := newTestEnv(t)

		var uploads []upload
		for i := 0; i < 11; i++ {
			uploads = append(uploads, upload{field: "documents", name: "d.pdf", content: "%PDF"})
		}
		docs := fileHeaders(t, uploads...)["documents"]
		_, err := env.submit.Submit(ctx, validForm(), logoHeader(t, "logo.png"), docs)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "At most 10 supporting documents are allowed", validationErr.Message)
		assert.Empty(t, storedFiles(t, env.fs))
	})

	t.Run("disallowed documents are skipped", func(t *testing.T) {
		env := newTestEnv(t)

		docs := fileHeaders(t,
			upload{field: "documents", name: "brief.pdf", contentType: "application/pdf", content: "%PDF-1.4"},
			upload{field: "documents", name: "run.exe", contentType: "application/octet-stream", content: "MZ"},
			upload{field: "documents", name: "notes.TXT", content: "plain notes"},
			upload{field: "documents", name: "bundle.zip", content: "PK"},
			upload{field: "documents", name: "deck.pptx", contentType: "application/vnd.openxmlformats-officedocument.presentationml.presentation", content: "PK.."},
		)["documents"]

		result, err := env.submit.Submit(ctx, validForm(), logoHeader(t, "logo.gif"), docs)
		require.NoError(t, err)
		assert.Equal(t, 3, result.DocumentsProcessed)

		detail, err := env.query.Get(ctx, result.SubmissionID)
		require.NoError(t, err)
		require.Len(t, detail.Documents, 3)

		names := []string{}
		for _, doc := range detail.Documents {
			names = append(names, doc.OriginalName)
			assert.Equal(t, result.SubmissionID, doc.SubmissionID)
			assert.True(t, strings.HasPrefix(doc.Filename, "doc_"))

			ok, err := env.store.Exists(storage.AreaDocuments, doc.Filename)
			require.NoError(t, err)
			assert.True(t, ok, doc.Filename)
		}
		assert.ElementsMatch(t, []string{"brief.pdf", "notes.TXT", "deck.pptx"}, names)

		assert.Len(t, storedFiles(t, env.fs), 4)
	})

	t.Run("document content type", func(t *testing.T) {
		env := newTestEnv(t)

		docs := fileHeaders(t,
			upload{field: "documents", name: "a.doc", contentType: "application/msword", content: "doc"},
			upload{field: "documents", name: "b.pdf", content: "%PDF-1.4\n%âãÏÓ\n"},
		)["documents"]

		result, err := env.submit.Submit(ctx, validForm(), logoHeader(t, "logo.png"), docs)
		require.NoError(t, err)

		detail, err := env.query.Get(ctx, result.SubmissionID)
		require.NoError(t, err)
		require.Len(t, detail.Documents, 2)
		assert.Equal(t, "application/msword", detail.Documents[0].FileType)
		assert.Equal(t, "application/pdf", detail.Documents[1].FileType)
	})
}

func TestSubmitStorageFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("disk write failure leaves nothing behind", func(t *testing.T) {
		env := newTestEnv(t)

		readOnly, err := storage.NewLocalStore(afero.NewReadOnlyFs(env.fs), "/uploads")
		require.NoError(t, err)
		intake := NewFileIntake(readOnly, testMaxFileSize, 10, newTestLogger())
		svc := NewSubmissionService(env.submissions, intake, newTestLogger())

		_, err = svc.Submit(ctx, validForm(), logoHeader(t, "logo.png"), nil)

		var storageErr *StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Zero(t, countRows(t, env.db, &models.Submission{}))
	})

	t.Run("partial write failure removes written files", func(t *testing.T) {
		env := newTestEnv(t)

		store := &failingStore{LocalStore: env.store, failArea: storage.AreaDocuments}
		intake := NewFileIntake(store, testMaxFileSize, 10, newTestLogger())
		svc := NewSubmissionService(env.submissions, intake, newTestLogger())

		docs := fileHeaders(t, upload{field: "documents", name: "a.pdf", content: "%PDF"})["documents"]
		_, err := svc.Submit(ctx, validForm(), logoHeader(t, "logo.png"), docs)

		var storageErr *StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Empty(t, storedFiles(t, env.fs))
		assert.Zero(t, countRows(t, env.db, &models.Submission{}))
	})

	t.Run("database failure removes written files", func(t *testing.T) {
		env := newTestEnv(t)

		svc := NewSubmissionService(failingWriter{}, env.intake, newTestLogger())
		docs := fileHeaders(t, upload{field: "documents", name: "a.pdf", content: "%PDF"})["documents"]

		_, err := svc.Submit(ctx, validForm(), logoHeader(t, "logo.png"), docs)

		var storageErr *StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.ErrorIs(t, err, errDatabaseDown)
		assert.Empty(t, storedFiles(t, env.fs))
	})
}

var errDatabaseDown = errors.New("database is down")

type failingWriter struct{}

func (failingWriter) CreateWithDocuments(context.Context, *models.Submission, []models.Document) error {
	return errDatabaseDown
}

type failingStore struct {
	*storage.LocalStore
	failArea storage.Area
}

func (s *failingStore) Save(area storage.Area, name string, src io.Reader) (int64, error) {
	if area == s.failArea {
		return 0, errors.New("disk full")
	}
	return s.LocalStore.Save(area, name, src)
}
