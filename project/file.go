package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Read 读取并解码项目文件。严格解码失败时去掉旧版命名空间声明再试一次。
func Read(path string, log zerolog.Logger) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(data)
	if err == nil {
		log.Debug().Str("path", path).Msg("project decoded")
		return p, nil
	}
	stripped := StripLegacyNamespace(data)
	if len(stripped) == len(data) {
		return nil, fmt.Errorf("read project %s: %w", path, err)
	}
	p, lerr := Decode(stripped)
	if lerr != nil {
		return nil, fmt.Errorf("read project %s: %w", path, errors.Join(err, lerr))
	}
	log.Info().Str("path", path).Msg("project decoded after removing legacy namespace")
	return p, nil
}

// Load 返回 path 处的项目：文件不存在时返回 Default()；无法解码时记录错误并返回 nil，
// 由调用方决定是否新建项目。Load 不会 panic。
func Load(path string, log zerolog.Logger) *Project {
	p, err := Read(path, log)
	switch {
	case err == nil:
		return p
	case errors.Is(err, fs.ErrNotExist):
		log.Info().Str("path", path).Msg("project file not found, using default project")
		return Default()
	default:
		log.Error().Err(err).Str("path", path).Msg("无法打开项目文件")
		return nil
	}
}

// Write 原子地保存项目：先写入目标目录下的临时文件再重命名，失败时不留下任何文件。
func Write(p *Project, path string) (err error) {
	data, err := Encode(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write project %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write project %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("write project %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write project %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write project %s: %w", path, err)
	}
	return nil
}

// Repath 返回引用路径从 oldDir 改写为相对 newDir 的副本。两个目录相同时引用保持原样。
// 无法表示为相对路径的引用（例如跨盘符）改为绝对路径。
func Repath(p *Project, oldDir, newDir string) (*Project, error) {
	out := p.Clone()
	from, err := filepath.Abs(oldDir)
	if err != nil {
		return nil, err
	}
	to, err := filepath.Abs(newDir)
	if err != nil {
		return nil, err
	}
	if from == to {
		return out, nil
	}
	for _, l := range out.Layouts {
		for _, r := range l.References {
			r.RelativePath = rebase(r.RelativePath, from, to)
		}
	}
	return out, nil
}

func rebase(ref, from, to string) string {
	if ref == "" {
		return ref
	}
	native := filepath.FromSlash(ref)
	if filepath.IsAbs(native) {
		return ref
	}
	abs := filepath.Join(from, native)
	rel, err := filepath.Rel(to, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// SaveAs 把项目保存到 newPath，引用路径改写为相对新目录。
// 只有写入成功后 p 的引用才会被更新；失败时 p 保持不变。
func SaveAs(p *Project, oldPath, newPath string) error {
	moved, err := Repath(p, filepath.Dir(oldPath), filepath.Dir(newPath))
	if err != nil {
		return err
	}
	if err := Write(moved, newPath); err != nil {
		return err
	}
	for i, l := range p.Layouts {
		for j, r := range l.References {
			r.RelativePath = moved.Layouts[i].References[j].RelativePath
		}
	}
	return nil
}

// ResolveReference 返回引用在文件系统中的路径。
func ResolveReference(projectDir string, r *Reference) string {
	native := filepath.FromSlash(r.RelativePath)
	if filepath.IsAbs(native) {
		return native
	}
	return filepath.Join(projectDir, native)
}
