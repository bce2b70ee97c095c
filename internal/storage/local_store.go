package storage

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Area 上传目录下的子区域
type Area string

const (
	AreaLogos     Area = "logos"
	AreaDocuments Area = "documents"
)

// LocalStore 上传文件存储, 根目录下分 logos/ 与 documents/ 两个子目录
type LocalStore struct {
	fs   afero.Fs
	root string
}

// NewLocalStore 创建文件存储并确保子目录存在
func NewLocalStore(fs afero.Fs, root string) (*LocalStore, error) {
	s := &LocalStore{fs: fs, root: root}
	for _, area := range []Area{AreaLogos, AreaDocuments} {
		if ok, _ := afero.DirExists(fs, s.dir(area)); ok {
			continue
		}
		if err := fs.MkdirAll(s.dir(area), 0o755); err != nil {
			return nil, fmt.Errorf("创建上传目录失败: %w", err)
		}
	}
	return s, nil
}

// Root 根目录
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) dir(area Area) string {
	return filepath.Join(s.root, string(area))
}

// Path 返回存储文件的完整路径, name 必须是系统生成的文件名
func (s *LocalStore) Path(area Area, name string) string {
	return filepath.Join(s.dir(area), filepath.Base(name))
}

// Save 写入文件: 先写临时文件并 fsync, 再重命名到最终文件名
// 返回时文件内容已落盘, 且最终文件名下不会出现写了一半的内容
func (s *LocalStore) Save(area Area, name string, src io.Reader) (int64, error) {
	tmp, err := afero.TempFile(s.fs, s.dir(area), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, src)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, fmt.Errorf("写入文件失败: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.Path(area, name)); err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, fmt.Errorf("保存文件失败: %w", err)
	}
	return n, nil
}

// Exists 文件是否存在
func (s *LocalStore) Exists(area Area, name string) (bool, error) {
	return afero.Exists(s.fs, s.Path(area, name))
}

// Remove 删除文件, 文件不存在不视为错误
func (s *LocalStore) Remove(area Area, name string) error {
	err := s.fs.Remove(s.Path(area, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// HTTPFileSystem 以只读方式对外提供上传文件, 不列出目录
func (s *LocalStore) HTTPFileSystem() http.FileSystem {
	return fileOnlyFS{afero.NewHttpFs(s.fs).Dir(s.root)}
}

type fileOnlyFS struct {
	http.FileSystem
}

func (f fileOnlyFS) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
