package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	"studentapi/internal/model"
	"studentapi/internal/repository"
	"studentapi/internal/storage"
)

var rosterHeader = []string{"student_id", "first_name", "last_name", "dob", "amount_due"}

// ExportResult describes an uploaded roster snapshot.
type ExportResult struct {
	Key       string    `json:"key"`
	Rows      int       `json:"rows"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService publishes the student roster to object storage.
type ExportService interface {
	// ExportRoster writes every student as CSV to object storage and returns a presigned download URL.
	ExportRoster(ctx context.Context) (*ExportResult, error)
}

type exportService struct {
	store  storage.Storage
	repo   repository.StudentRepository
	expiry time.Duration
	now    func() time.Time
}

// NewExportService constructs a new ExportService. Presigned URLs live for expiry.
func NewExportService(store storage.Storage, repo repository.StudentRepository, expiry time.Duration) ExportService {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &exportService{store: store, repo: repo, expiry: expiry, now: time.Now}
}

func (s *exportService) ExportRoster(ctx context.Context) (*ExportResult, error) {
	students, err := s.repo.List(ctx, model.StudentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	body, err := encodeRoster(students)
	if err != nil {
		return nil, fmt.Errorf("encode roster: %w", err)
	}

	key := path.Join("exports", "students-"+uuid.NewString()+".csv")
	info, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "text/csv",
		Metadata: map[string]string{
			"rows": strconv.Itoa(len(students)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	url, err := s.store.PresignGet(ctx, info.Key, s.expiry)
	if err != nil {
		// Rollback: an export nobody can download is removed again.
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("presign failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign failed: %w", err)
	}

	return &ExportResult{
		Key:       info.Key,
		Rows:      len(students),
		Size:      info.Size,
		URL:       url,
		ExpiresAt: s.now().Add(s.expiry).UTC(),
	}, nil
}

func encodeRoster(students []model.Student) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rosterHeader); err != nil {
		return nil, err
	}
	for _, st := range students {
		record := []string{
			strconv.FormatInt(st.ID, 10),
			st.FirstName,
			st.LastName,
			st.DOB.String(),
			strconv.FormatFloat(st.AmountDue, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
