package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mock_interview_backend/internal/repository"
	"mock_interview_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	t.Cleanup(func() { req.MultipartForm.RemoveAll() })
	return req.MultipartForm.File["resume"][0]
}

func TestSaveResumeStoresPDF(t *testing.T) {
	root := t.TempDir()
	svc := &StorageService{Provider: &LocalStorageProvider{Root: root}}

	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	meta, err := svc.SaveResume(context.Background(), fileHeader(t, "cv.pdf", pdf))
	require.NoError(t, err)

	assert.Equal(t, "cv.pdf", meta.FileName)
	assert.Equal(t, util.MimePDF, meta.FileType)
	assert.Equal(t, int64(len(pdf)), meta.FileSize)
	require.True(t, strings.HasPrefix(meta.URL, "/uploads/resumes/"))

	stored, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(meta.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pdf, stored)
}

func TestSaveResumeRejectsNonPDF(t *testing.T) {
	svc := &StorageService{Provider: &LocalStorageProvider{Root: t.TempDir()}}

	_, err := svc.SaveResume(context.Background(), fileHeader(t, "cv.pdf", []byte("just some text")))
	assert.ErrorIs(t, err, util.ErrFileType)
}

func TestSaveResumeRejectsOversize(t *testing.T) {
	svc := &StorageService{Provider: &LocalStorageProvider{Root: t.TempDir()}}

	fh := fileHeader(t, "cv.pdf", []byte("%PDF-1.4"))
	fh.Size = util.MaxResumeSize + 1
	_, err := svc.SaveResume(context.Background(), fh)
	assert.ErrorIs(t, err, util.ErrFileTooLarge)
}

func TestDeleteResumeRemovesUpload(t *testing.T) {
	root := t.TempDir()
	svc := &StorageService{Provider: &LocalStorageProvider{Root: root}}
	ctx := context.Background()

	meta, err := svc.SaveResume(ctx, fileHeader(t, "cv.pdf", []byte("%PDF-1.4\n")))
	require.NoError(t, err)
	assert.Equal(t, meta.URL, "/uploads/"+meta.Key)

	svc.DeleteResume(ctx, meta)
	_, err = os.Stat(filepath.Join(root, meta.Key))
	assert.True(t, os.IsNotExist(err))

	svc.DeleteResume(ctx, nil)
}

func TestValidateResumeDoesNotUpload(t *testing.T) {
	root := t.TempDir()
	svc := &StorageService{Provider: &LocalStorageProvider{Root: root}}

	require.NoError(t, svc.ValidateResume(fileHeader(t, "cv.pdf", []byte("%PDF-1.4\n"))))
	assert.ErrorIs(t, svc.ValidateResume(fileHeader(t, "cv.pdf", []byte("plain text"))), util.ErrFileType)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	require.NoError(t, filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	}))
	return n
}

func newResumeServices(t *testing.T, gen *fakeGenerator) (*InterviewService, string) {
	t.Helper()
	root := t.TempDir()
	db := newTestDB(t)
	storage := &StorageService{Provider: &LocalStorageProvider{Root: root}}
	return NewInterviewService(gen, repository.NewInterviewRepository(db), repository.NewCodingInterviewRepository(db), storage), root
}

func TestCreateInterviewUploadsResumeOnlyAfterGeneration(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 5 interview questions": "[]"}}
	interviews, root := newResumeServices(t, gen)

	_, err := interviews.CreateInterview(context.Background(), "dev@example.com", CreateInterviewInput{
		JobPosition: "x", JobDescription: "y",
		Resume: fileHeader(t, "cv.pdf", []byte("%PDF-1.4\n")),
	})
	assert.ErrorIs(t, err, util.ErrInvalidShape)
	assert.Zero(t, countFiles(t, root))
}

func TestCreateInterviewRejectsBadResumeBeforeGenerating(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 5 interview questions": interviewJSON}}
	interviews, root := newResumeServices(t, gen)

	_, err := interviews.CreateInterview(context.Background(), "dev@example.com", CreateInterviewInput{
		JobPosition: "x", JobDescription: "y",
		Resume: fileHeader(t, "cv.pdf", []byte("not a pdf")),
	})
	assert.ErrorIs(t, err, util.ErrFileType)
	assert.Empty(t, gen.prompts)
	assert.Zero(t, countFiles(t, root))
}

func TestCreateInterviewKeepsResumeAndRawInput(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 5 interview questions": interviewJSON}}
	interviews, root := newResumeServices(t, gen)

	detail, err := interviews.CreateInterview(context.Background(), "dev@example.com", CreateInterviewInput{
		JobPosition:       "Café Lead Engineer",
		JobDescription:    "Résumé parsing, naïve bayes",
		YearsOfExperience: "5年",
		Resume:            fileHeader(t, "cv.pdf", []byte("%PDF-1.4\n")),
	})
	require.NoError(t, err)

	assert.Equal(t, "Café Lead Engineer", detail.Interview.JobPosition)
	assert.Equal(t, "Résumé parsing, naïve bayes", detail.Interview.JobDescription)
	assert.Equal(t, "5年", detail.Interview.JobExperience)
	assert.Contains(t, string(detail.Interview.FileData), `"fileName":"cv.pdf"`)
	assert.NotContains(t, string(detail.Interview.FileData), "Key")
	assert.Equal(t, 1, countFiles(t, root))
}

func TestCreateCodingInterviewKeepsRawInput(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 3 coding questions": codingJSON}}
	interviews, _ := newResumeServices(t, gen)

	detail, err := interviews.CreateCodingInterview(context.Background(), "dev@example.com", CreateCodingInterviewInput{
		Topic:              "Árvores binárias",
		DifficultyLevel:    "médio",
		ProblemDescription: "Balanceamento: AVL",
	})
	require.NoError(t, err)
	assert.Equal(t, "Árvores binárias", detail.Interview.InterviewTopic)
	assert.Equal(t, "médio", detail.Interview.DifficultyLevel)
	assert.Equal(t, "Balanceamento: AVL", detail.Interview.ProblemDescription)
}
