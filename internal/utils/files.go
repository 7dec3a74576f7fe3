package utils

import (
	"os"
	"path/filepath"
	"strings"
)

func GetFilename(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func OpenFile(makeDir bool, outputPath string, fileSuffix, modelName string) (*os.File, error) {
	if makeDir && fileSuffix != "" && fileSuffix != "." {
		dir := filepath.Join(outputPath, fileSuffix)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, err
		}
		return os.Create(filepath.Join(dir, modelName+".csv"))
	}
	if outputPath != "" {
		if err := os.MkdirAll(outputPath, 0750); err != nil {
			return nil, err
		}
	}
	return os.Create(filepath.Join(outputPath, modelName+"_"+fileSuffix+".csv"))
}
