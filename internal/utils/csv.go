package utils

import (
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/facette/natsort"
)

type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

// WriteAsCSV writes the header followed by the rows naturally sorted by their first column.
// With makeDir the file goes to path/subpath/<filename>.csv.
func WriteAsCSV(data CSV, makeDir bool, path, subpath, filename string, columns []string) (string, error) {
	file, err := OpenFile(makeDir, path, subpath, GetFilename(filename))
	if err != nil {
		return "", fmt.Errorf("unable to open csv output: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return "", err
	}
	sort.Stable(data)
	if err := w.WriteAll(data); err != nil {
		return "", err
	}
	return file.Name(), nil
}
