package outline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"emberlog/internal/model"
)

// DefaultContent is written on first read when the outline file is missing.
const DefaultContent = "# today\n\n# ideas\n\n# backlog\n"

// Store reads and writes the outline file. Writes are serialized by a single
// mutex since the file is one shared resource across all request handlers.
// Before each save the previous content is copied into the backup directory;
// a failed backup is logged and the save proceeds (fail-open).
type Store struct {
	mu        sync.Mutex
	path      string
	backupDir string
	logger    *log.Logger
	now       func() time.Time
}

func NewStore(path, backupDir string, logger *log.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("outline path is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{
		path:      path,
		backupDir: backupDir,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *Store) Path() string { return s.path }

// Load parses the outline file. A missing file is treated as the empty
// three-section document, which is written back so the file exists for
// subsequent external edits.
func (s *Store) Load() (*model.Sections, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := os.WriteFile(s.path, []byte(DefaultContent), 0o644); werr != nil {
				return nil, werr
			}
			return model.NewSections(), nil
		}
		return nil, err
	}
	return Parse(string(b)), nil
}

// Save serializes the tree and overwrites the outline file, backing up the
// previous content first.
func (s *Store) Save(sections *model.Sections) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, err := os.ReadFile(s.path); err == nil {
		if berr := s.writeBackup(prev); berr != nil {
			s.logger.Printf(`{"level":"warn","msg":"outline_backup_failed","error":%q}`, berr.Error())
		}
	}

	return os.WriteFile(s.path, []byte(Render(sections)), 0o644)
}

func (s *Store) writeBackup(content []byte) error {
	if strings.TrimSpace(s.backupDir) == "" {
		return nil
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	name := fmt.Sprintf("%s_%s.md", base, s.now().Format("20060102_150405"))
	return os.WriteFile(filepath.Join(s.backupDir, name), content, 0o644)
}
