package fonts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
)

var fontExtensions = map[string]bool{
	".ttf":   true,
	".otf":   true,
	".woff":  true,
	".woff2": true,
}

// Source 按字体族名查找字体数据：先查注入的字体，再查字体目录。
// 目录中的字体按文件名匹配（例如 Arial → arial.ttf，粗体 → arialbd.ttf / Arial-Bold.ttf）。
type Source struct {
	dir      string
	injected map[string][]byte

	once  sync.Once
	index map[string]string
	err   error
}

// NewSource creates a source reading dir lazily. injected maps family (or
// file-style) names to font data and takes precedence over the directory.
func NewSource(dir string, injected map[string][]byte) *Source {
	s := &Source{dir: dir, injected: map[string][]byte{}}
	for name, data := range injected {
		if len(data) > 0 {
			s.injected[Normalize(name)] = data
		}
	}
	return s
}

// Dir returns the fonts directory, possibly empty.
func (s *Source) Dir() string { return s.dir }

// Lookup returns the data of the closest variant of family. found is false
// when neither the injected fonts nor the directory know the family.
func (s *Source) Lookup(family string, bold, italic bool) (data []byte, found bool, err error) {
	keys := candidates(family, bold, italic)
	for _, key := range keys {
		if blob, ok := s.injected[key]; ok {
			return blob, true, nil
		}
	}
	if err := s.buildIndex(); err != nil {
		return nil, false, err
	}
	for _, key := range keys {
		path, ok := s.index[key]
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("读取字体 %s 失败: %w", path, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// Families lists the normalized names known from the directory.
func (s *Source) Families() ([]string, error) {
	if err := s.buildIndex(); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(s.index))
	for k := range s.index {
		out = append(out, k)
	}
	return out, nil
}

func (s *Source) buildIndex() error {
	s.once.Do(func() {
		s.index = map[string]string{}
		if s.dir == "" {
			return
		}
		s.err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !fontExtensions[ext] {
				return nil
			}
			key := Normalize(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
			if _, dup := s.index[key]; !dup {
				s.index[key] = path
			}
			return nil
		})
		if s.err != nil {
			s.err = fmt.Errorf("扫描字体目录 %s 失败: %w", s.dir, s.err)
		}
	})
	return s.err
}

// Normalize folds a family or file name into a lookup key.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func candidates(family string, bold, italic bool) []string {
	base := Normalize(family)
	var suffixes []string
	switch {
	case bold && italic:
		suffixes = []string{"bolditalic", "boldoblique", "bi", "z"}
	case bold:
		suffixes = []string{"bold", "bd", "b"}
	case italic:
		suffixes = []string{"italic", "oblique", "it", "i"}
	}
	suffixes = append(suffixes, "", "regular", "r")
	out := make([]string, 0, len(suffixes))
	for _, suf := range suffixes {
		out = append(out, base+suf)
	}
	return out
}
