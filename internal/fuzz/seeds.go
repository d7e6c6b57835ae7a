package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
)

// inlineSeeds cover the shapes the argument classifier distinguishes.
var inlineSeeds = []string{
	"",
	"def method_name",
	"def test(String hello, ?(Integer | customType) foo = 1, kwarg: \"))((\") => String # comment",
	"def m(type arg, test = -> { proc }, String b:, (Integer | String) x: 123) => { test: String }",
	"def f(@a, @b:, ?Integer @c = 1) => void",
	"def self.build(Hash[Symbol, Array[String]] opts = {}, &blk)",
	"method_name => ?(Type | OtherType[Type]) # comment",
	"def x(a = 'it\\'s', b = \"#not a comment\")",
	"def broken(a = \"open",
	")]}",
	"((([[[{{{",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// каждая строка .rb файла: отдельное зерно, плюс файл целиком
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".rb" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		for _, line := range bytes.Split(src, []byte{'\n'}) {
			if len(bytes.TrimSpace(line)) > 0 {
				f.Add(clampSeed(line))
			}
		}
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
