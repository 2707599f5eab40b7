package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rmoliveira/feira/internal/database"
	"github.com/rmoliveira/feira/internal/model"
	"github.com/rmoliveira/feira/internal/store"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, &s3NotFound{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(string(data))),
	}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type s3NotFound struct{}

func (e *s3NotFound) Error() string { return "NoSuchKey" }

func TestManagerStateLifecycle(t *testing.T) {
	// Without S3 config -> disabled
	m := NewManager(Config{}, nil, nil, nil)
	if m.Status().State != StateDisabled {
		t.Errorf("state = %q, want %q", m.Status().State, StateDisabled)
	}

	// Missing passphrase -> still disabled
	m = NewManager(Config{
		S3: S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
	}, nil, nil, nil)
	if m.Status().State != StateDisabled {
		t.Errorf("state without passphrase = %q, want %q", m.Status().State, StateDisabled)
	}

	// Fully configured -> idle
	m = NewManager(Config{
		S3:         S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
		Passphrase: "segredo",
	}, nil, nil, nil)
	if m.Status().State != StateIdle {
		t.Errorf("state = %q, want %q", m.Status().State, StateIdle)
	}
	if !m.Enabled() {
		t.Error("expected Enabled for a configured manager")
	}
}

func setupBackupManager(t *testing.T, client s3Client) (*Manager, *store.BackupStore) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "feira.db")

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bs := store.NewBackupStore(db)
	m := NewManager(Config{
		S3:         S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
		DBPath:     dbPath,
		Passphrase: "segredo",
	}, db, bs, nil)
	m.client = client
	return m, bs
}

func TestRunNowUploadsEncryptedSnapshot(t *testing.T) {
	mock := newMockS3()
	m, bs := setupBackupManager(t, mock)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}

	record, err := bs.GetByID(id)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want completed", record.Status)
	}
	if record.SizeBytes <= 0 {
		t.Errorf("size = %d, want > 0", record.SizeBytes)
	}

	mock.mu.Lock()
	data, ok := mock.objects[record.ObjectKey]
	mock.mu.Unlock()
	if !ok {
		t.Fatalf("object %q not uploaded", record.ObjectKey)
	}
	if strings.Contains(string(data), "SQLite format 3") {
		t.Error("uploaded snapshot is not encrypted")
	}

	status := m.Status()
	if status.State != StateIdle || status.LastBackup == nil {
		t.Errorf("status after backup = %+v", status)
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	mock := newMockS3()
	mock.putErr = &s3NotFound{}
	m, bs := setupBackupManager(t, mock)

	if _, err := m.RunNow(context.Background()); err == nil {
		t.Fatal("expected upload failure")
	}

	records, err := bs.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Status != model.BackupStatusFailed {
		t.Errorf("status = %q, want failed", records[0].Status)
	}
	if m.Status().State != StateError {
		t.Errorf("manager state = %q, want error", m.Status().State)
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	mock := newMockS3()
	m, _ := setupBackupManager(t, mock)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}

	body, size, err := m.Download(context.Background(), id)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if int64(len(data)) != size {
		t.Errorf("body size = %d, recorded %d", len(data), size)
	}

	if _, _, err := m.Download(context.Background(), 999); err == nil {
		t.Error("expected error for unknown backup id")
	}
}

func TestRestoreReplacesDatabaseAndExits(t *testing.T) {
	mock := newMockS3()
	m, _ := setupBackupManager(t, mock)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}

	exitCode := -1
	m.exit = func(code int) { exitCode = code }

	if err := m.Restore(context.Background(), 999); err == nil {
		t.Error("expected error for unknown backup id")
	}
	if exitCode != -1 {
		t.Fatal("a failed restore must not exit the process")
	}

	if err := m.Restore(context.Background(), id); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exit code = %d, want 0", exitCode)
	}

	data, err := os.ReadFile(m.cfg.DBPath)
	if err != nil {
		t.Fatalf("read restored db: %v", err)
	}
	if !strings.HasPrefix(string(data), "SQLite format 3") {
		t.Error("restored file is not a SQLite database")
	}
}

func TestCleanupDeletesOldObjects(t *testing.T) {
	mock := newMockS3()
	m, bs := setupBackupManager(t, mock)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}
	record, _ := bs.GetByID(id)

	// Age the record past the retention window.
	m.cfg.RetentionDays = -1
	if err := m.Cleanup(context.Background()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if got, _ := bs.GetByID(id); got != nil {
		t.Error("expected record removed by cleanup")
	}
	mock.mu.Lock()
	_, ok := mock.objects[record.ObjectKey]
	mock.mu.Unlock()
	if ok {
		t.Error("expected S3 object removed by cleanup")
	}
}
