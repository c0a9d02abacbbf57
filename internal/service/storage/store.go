package storage

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/constants"
	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/internal/util"
	"github.com/kapu/hololive-wiki-scraper/pkg/errors"
)

// Store lays records out as {root}/{group}/{id}/_data.json, with outfit images next to them.
type Store struct {
	root   string
	logger *zap.Logger
}

func NewStore(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if root == "" {
		root = constants.OutputConfig.Root
	}
	return &Store{root: root, logger: logger}
}

// Root returns the output root directory.
func (s *Store) Root() string {
	return s.root
}

// TalentDir returns the directory of one talent without creating it.
func (s *Store) TalentDir(group, id string) string {
	return filepath.Join(s.root, group, id)
}

// EnsureTalentDir creates the talent directory, including parents.
func (s *Store) EnsureTalentDir(group, id string) (string, error) {
	dir := s.TalentDir(group, id)
	if err := os.MkdirAll(dir, fs.FileMode(constants.OutputConfig.DirPerm)); err != nil {
		return "", errors.NewStorageError("failed to create talent directory", "mkdir", dir, err)
	}
	return dir, nil
}

// WriteRecord serializes record into its group directory, replacing any previous file.
func (s *Store) WriteRecord(group string, record *domain.TalentRecord) (string, error) {
	dir, err := s.EnsureTalentDir(group, record.ID)
	if err != nil {
		return "", err
	}

	data, err := EncodeRecord(record)
	if err != nil {
		return "", errors.NewStorageError("failed to marshal record", "marshal", record.ID, err)
	}

	target := filepath.Join(dir, constants.OutputConfig.DataFileName)
	if err := writeFileAtomic(target, data); err != nil {
		return "", err
	}

	s.logger.Debug("Record written",
		zap.String("group", group),
		zap.String("id", record.ID),
		zap.String("path", target),
	)
	return target, nil
}

// WriteImage stores image bytes as {dir}/{label}.png after sanitizing label.
func (s *Store) WriteImage(dir, label string, data []byte) (string, error) {
	target := filepath.Join(dir, util.SanitizeFilename(label)+constants.OutputConfig.ImageExt)
	if err := writeFileAtomic(target, data); err != nil {
		return "", err
	}
	return target, nil
}

// Load reads a previously written record.
func (s *Store) Load(group, id string) (*domain.TalentRecord, error) {
	return readRecord(filepath.Join(s.TalentDir(group, id), constants.OutputConfig.DataFileName))
}

// Walk calls fn for every stored record, ordered by group then id.
func (s *Store) Walk(fn func(group string, record *domain.TalentRecord) error) error {
	pattern := filepath.Join(s.root, "*", "*", constants.OutputConfig.DataFileName)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return errors.NewStorageError("failed to list records", "glob", pattern, err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		record, err := readRecord(path)
		if err != nil {
			return err
		}
		group := filepath.Base(filepath.Dir(filepath.Dir(path)))
		if err := fn(group, record); err != nil {
			return err
		}
	}
	return nil
}

// EncodeRecord renders record as indented UTF-8 JSON without HTML escaping.
func EncodeRecord(record *domain.TalentRecord) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readRecord(path string) (*domain.TalentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to read record", "read", path, err)
	}
	var record domain.TalentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.NewStorageError("failed to parse record", "unmarshal", path, err)
	}
	return &record, nil
}

func writeFileAtomic(target string, data []byte) error {
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, fs.FileMode(constants.OutputConfig.FilePerm)); err != nil {
		return errors.NewStorageError("failed to write file", "write", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return errors.NewStorageError("failed to finalize file", "rename", target, err)
	}
	return nil
}
