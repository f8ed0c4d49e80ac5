package project

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNoPath 表示会话还没有关联项目文件。
var ErrNoPath = errors.New("project has no file path")

// Session 持有当前打开的项目及其文件路径，由应用外壳显式创建并传递。
// 订阅者按注册顺序同步调用，调用时不持有会话锁。
type Session struct {
	log zerolog.Logger

	mu      sync.Mutex
	project *Project
	path    string

	loaded  []func(p *Project, path string)
	updated []func(p *Project)
}

// NewSession 返回一个没有打开项目的会话。
func NewSession(log zerolog.Logger) *Session {
	return &Session{log: log}
}

// OnLoaded 注册项目被打开或新建后的回调。
func (s *Session) OnLoaded(fn func(p *Project, path string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = append(s.loaded, fn)
}

// OnUpdated 注册项目内容被修改后的回调。
func (s *Session) OnUpdated(fn func(p *Project)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = append(s.updated, fn)
}

// Project 返回当前项目，没有打开项目时为 nil。
func (s *Session) Project() *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

// Path 返回当前项目文件路径。
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Open 加载 path 处的项目；文件不存在时得到默认项目。无法解码时返回错误，会话保持不变。
func (s *Session) Open(path string) error {
	p := Load(path, s.log)
	if p == nil {
		return fmt.Errorf("open %s: %w", path, ErrFormat)
	}
	s.setLoaded(p, path)
	return nil
}

// New 以默认项目开始一个新会话，path 为之后保存的位置，可以为空。
func (s *Session) New(path string) {
	s.setLoaded(Default(), path)
}

func (s *Session) setLoaded(p *Project, path string) {
	s.mu.Lock()
	s.project, s.path = p, path
	subs := append([]func(*Project, string){}, s.loaded...)
	s.mu.Unlock()

	s.log.Info().Str("path", path).Int("layouts", len(p.Layouts)).Msg("project loaded")
	for _, fn := range subs {
		fn(p, path)
	}
}

// Save 保存到当前路径。
func (s *Session) Save() error {
	s.mu.Lock()
	p, path := s.project, s.path
	s.mu.Unlock()
	if p == nil {
		return errors.New("no project open")
	}
	if path == "" {
		return ErrNoPath
	}
	if err := Write(p, path); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Msg("project saved")
	return nil
}

// SaveAs 保存到新路径并改写引用路径；成功后新路径成为当前路径，失败时会话保持不变。
func (s *Session) SaveAs(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return errors.New("no project open")
	}
	old := s.path
	if old == "" {
		old = path
	}
	if err := SaveAs(s.project, old, path); err != nil {
		return err
	}
	s.path = path
	s.log.Info().Str("from", old).Str("path", path).Msg("project saved as")
	return nil
}

// Update 在会话锁内修改当前项目，成功后通知 OnUpdated 订阅者。
func (s *Session) Update(fn func(p *Project) error) error {
	s.mu.Lock()
	p := s.project
	if p == nil {
		s.mu.Unlock()
		return errors.New("no project open")
	}
	if err := fn(p); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := append([]func(*Project){}, s.updated...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
	return nil
}
