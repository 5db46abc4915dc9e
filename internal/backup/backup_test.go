package backup_test

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/athenaeumhq/athenaeum/internal/backup"
	"github.com/athenaeumhq/athenaeum/internal/store"
)

// createTestDB seeds a store with session-like keys and returns its path.
func createTestDB(t *testing.T, dir string) string {
	t.Helper()

	dbPath := filepath.Join(dir, "athenaeum.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Set(ctx, "token", "at-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Set(ctx, "app-theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	return dbPath
}

func createTestConfig(t *testing.T, dir string) string {
	t.Helper()

	cfgPath := filepath.Join(dir, "athenaeum.yaml")
	if err := os.WriteFile(cfgPath, []byte("api:\n  base_url: http://localhost:7999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

// verifyDBContents checks that the restored store still holds the seeded
// keys.
func verifyDBContents(t *testing.T, dbPath string) {
	t.Helper()

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open restored db: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if got, err := st.Get(ctx, "token"); err != nil || got != "at-1" {
		t.Fatalf("Get(token) = %q, %v; want at-1", got, err)
	}
	if got, err := st.Get(ctx, "app-theme"); err != nil || got != "dark" {
		t.Fatalf("Get(app-theme) = %q, %v; want dark", got, err)
	}
}

func TestBackupRestore(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T) (dbPath, configPath, archivePath, restoreDir string)
		backupErr  string
		restoreErr string
		force      bool
		verify     func(t *testing.T, restoreDir string)
	}{
		{
			name: "round trip with config",
			setup: func(t *testing.T) (string, string, string, string) {
				srcDir := t.TempDir()
				dbPath := createTestDB(t, srcDir)
				cfgPath := createTestConfig(t, srcDir)
				return dbPath, cfgPath, filepath.Join(t.TempDir(), "backup.tar.gz"), t.TempDir()
			},
			verify: func(t *testing.T, restoreDir string) {
				verifyDBContents(t, filepath.Join(restoreDir, "athenaeum.db"))
				data, err := os.ReadFile(filepath.Join(restoreDir, "athenaeum.yaml"))
				if err != nil {
					t.Fatalf("config not restored: %v", err)
				}
				if len(data) == 0 {
					t.Fatal("restored config is empty")
				}
			},
		},
		{
			name: "round trip without config",
			setup: func(t *testing.T) (string, string, string, string) {
				dbPath := createTestDB(t, t.TempDir())
				return dbPath, "", filepath.Join(t.TempDir(), "backup.tar.gz"), t.TempDir()
			},
			verify: func(t *testing.T, restoreDir string) {
				verifyDBContents(t, filepath.Join(restoreDir, "athenaeum.db"))
			},
		},
		{
			name: "missing database",
			setup: func(t *testing.T) (string, string, string, string) {
				return filepath.Join(t.TempDir(), "nonexistent.db"), "", filepath.Join(t.TempDir(), "backup.tar.gz"), t.TempDir()
			},
			backupErr: "database file not found",
		},
		{
			name: "no force existing DB",
			setup: func(t *testing.T) (string, string, string, string) {
				dbPath := createTestDB(t, t.TempDir())
				restoreDir := t.TempDir()
				createTestDB(t, restoreDir)
				return dbPath, "", filepath.Join(t.TempDir(), "backup.tar.gz"), restoreDir
			},
			restoreErr: "already exists",
		},
		{
			name:  "force existing DB",
			force: true,
			setup: func(t *testing.T) (string, string, string, string) {
				dbPath := createTestDB(t, t.TempDir())
				restoreDir := t.TempDir()
				createTestDB(t, restoreDir)
				return dbPath, "", filepath.Join(t.TempDir(), "backup.tar.gz"), restoreDir
			},
			verify: func(t *testing.T, restoreDir string) {
				verifyDBContents(t, filepath.Join(restoreDir, "athenaeum.db"))
			},
		},
	}

	ctx := context.Background()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dbPath, cfgPath, archivePath, restoreDir := tc.setup(t)

			err := backup.Backup(ctx, dbPath, cfgPath, archivePath)
			if tc.backupErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.backupErr) {
					t.Fatalf("backup error = %v, want containing %q", err, tc.backupErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Backup: %v", err)
			}

			err = backup.Restore(ctx, archivePath, restoreDir, tc.force)
			if tc.restoreErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.restoreErr) {
					t.Fatalf("restore error = %v, want containing %q", err, tc.restoreErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}

			if tc.verify != nil {
				tc.verify(t, restoreDir)
			}
		})
	}
}

func TestBackupNormalizesStoreName(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "old-laptop.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	if err := st.Set(ctx, "token", "at-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Set(ctx, "app-theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	st.Close()

	archivePath := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := backup.Backup(ctx, dbPath, "", archivePath); err != nil {
		t.Fatalf("Backup: %v", err)
	}

	restoreDir := t.TempDir()
	if err := backup.Restore(ctx, archivePath, restoreDir, false); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	verifyDBContents(t, filepath.Join(restoreDir, "athenaeum.db"))
}

func TestRestoreCorruptArchive(t *testing.T) {
	corruptPath := filepath.Join(t.TempDir(), "corrupt.tar.gz")
	if err := os.WriteFile(corruptPath, []byte("not a valid gzip"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := backup.Restore(context.Background(), corruptPath, t.TempDir(), false); err == nil {
		t.Fatal("expected error for corrupt archive, got nil")
	}
}

func TestRestoreRejectsUnsafeNames(t *testing.T) {
	names := []string{
		"../../../etc/evil.db",
		"/etc/evil.db",
		"nested/athenaeum.db",
		"..",
	}
	for _, name := range names {
		archivePath := filepath.Join(t.TempDir(), "evil.tar.gz")
		writeArchive(t, archivePath, name, []byte("evil"))

		err := backup.Restore(context.Background(), archivePath, t.TempDir(), false)
		if err == nil || !strings.Contains(err.Error(), "unsafe entry name") {
			t.Errorf("Restore(%q entry) error = %v, want unsafe entry name", name, err)
		}
	}
}

func TestRestoreRejectsDirectoryEntries(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "dir.tar.gz")

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	hdr := &tar.Header{Name: "snapshots", Mode: 0o755, Typeflag: tar.TypeDir}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	gw.Close()
	f.Close()

	err = backup.Restore(context.Background(), archivePath, t.TempDir(), false)
	if err == nil || !strings.Contains(err.Error(), "unexpected entry type") {
		t.Fatalf("error = %v, want unexpected entry type", err)
	}
}

func TestRestoreNoStoreInArchive(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "nodb.tar.gz")
	writeArchive(t, archivePath, "athenaeum.yaml", []byte("hello"))

	err := backup.Restore(context.Background(), archivePath, t.TempDir(), false)
	if err == nil || !strings.Contains(err.Error(), "missing athenaeum.db") {
		t.Fatalf("error = %v, want missing athenaeum.db", err)
	}
}

// writeArchive builds a single-entry tar.gz for failure-path tests.
func writeArchive(t *testing.T, path, name string, content []byte) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	hdr := &tar.Header{Name: name, Size: int64(len(content)), Mode: 0o644}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	gw.Close()
	f.Close()
}
