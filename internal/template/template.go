// Package template copies a prebuilt world template (level.dat and
// datapacks) into the output world directory and customizes its spawn
// point, grounded on the original implementation's apply_world_template.
package template

import (
	"io"
	"os"
	"path/filepath"

	"github.com/defvs/francegen/internal/nbtio"
	"github.com/defvs/francegen/internal/worldgen/errs"
)

// Apply copies templateDir's level.dat and datapacks into outputDir,
// rewriting level.dat's LevelName and spawn position in place.
func Apply(templateDir, outputDir string, spawn nbtio.Spawn) error {
	if err := copyLevelDat(templateDir, outputDir, spawn); err != nil {
		return err
	}
	return copyDatapacks(templateDir, outputDir)
}

func copyLevelDat(templateDir, outputDir string, spawn nbtio.Spawn) error {
	src := filepath.Join(templateDir, "level.dat")
	raw, err := os.ReadFile(src)
	if err != nil {
		return errs.New(errs.IOError, "read level.dat template", src, err)
	}

	patched, err := nbtio.PatchLevelDat(raw, spawn)
	if err != nil {
		return errs.New(errs.DecodeError, "patch level.dat", src, err)
	}

	dest := filepath.Join(outputDir, "level.dat")
	if err := os.WriteFile(dest, patched, 0o644); err != nil {
		return errs.New(errs.IOError, "write level.dat", dest, err)
	}
	return nil
}

func copyDatapacks(templateDir, outputDir string) error {
	src := filepath.Join(templateDir, "datapacks")
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	dest := filepath.Join(outputDir, "datapacks")
	if err := os.RemoveAll(dest); err != nil {
		return errs.New(errs.IOError, "clear existing datapacks", dest, err)
	}
	return copyDirRecursive(src, dest)
}

func copyDirRecursive(src, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errs.New(errs.IOError, "create directory", dest, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return errs.New(errs.IOError, "read directory", src, err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			if err := copyDirRecursive(srcPath, destPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errs.New(errs.IOError, "open source file", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errs.New(errs.IOError, "create destination file", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errs.New(errs.IOError, "copy file", src, err)
	}
	return nil
}
