package dataset

import (
	"archive/zip"
	"fmt"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// Keys of the arrays inside a dataset .npz archive. An .npz file is a zip
// archive whose entries are .npy files named after the saved arrays.
const (
	sensorsKey = "X_branch"
	queriesKey = "X_trunk"
	targetsKey = "y"
)

// Load reads a dataset from an .npz file.
//
// The archive must contain three 2-D float arrays: "X_branch" [N, m],
// "X_trunk" [Q, d] and "y" [N, Q]. Both float32 and float64 entries are
// accepted; values are converted to float32.
func Load[B tensor.Backend](path string, backend B) (*Batch[B], error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer archive.Close()

	arrays := make(map[string]*tensor.Tensor[float32, B], 3)
	for _, entry := range archive.File {
		key := entry.Name
		if len(key) > 4 && key[len(key)-4:] == ".npy" {
			key = key[:len(key)-4]
		}
		if key != sensorsKey && key != queriesKey && key != targetsKey {
			continue
		}

		t, err := readEntry(entry, backend)
		if err != nil {
			return nil, fmt.Errorf("dataset: entry %s: %w", entry.Name, err)
		}
		arrays[key] = t
	}

	for _, key := range []string{sensorsKey, queriesKey, targetsKey} {
		if arrays[key] == nil {
			return nil, fmt.Errorf("dataset: %s: missing array %q", path, key)
		}
	}

	batch := &Batch[B]{
		Sensors: arrays[sensorsKey],
		Queries: arrays[queriesKey],
		Targets: arrays[targetsKey],
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	return batch, nil
}

// readEntry decodes one .npy entry into a float32 tensor.
func readEntry[B tensor.Backend](entry *zip.File, backend B) (*tensor.Tensor[float32, B], error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r, err := npyio.NewReader(rc)
	if err != nil {
		return nil, err
	}

	dims := r.Header.Descr.Shape
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2-D array, got shape %v", dims)
	}
	shape := tensor.Shape{dims[0], dims[1]}

	var data []float32
	switch r.Header.Descr.Type {
	case "<f4", "f4":
		if err := r.Read(&data); err != nil {
			return nil, err
		}
	case "<f8", "f8":
		var f64 []float64
		if err := r.Read(&f64); err != nil {
			return nil, err
		}
		data = make([]float32, len(f64))
		for i, v := range f64 {
			data[i] = float32(v)
		}
	default:
		return nil, fmt.Errorf("unsupported dtype %q (want float32 or float64)", r.Header.Descr.Type)
	}

	return tensor.FromSlice(data, shape, backend)
}

// Save writes a dataset to an .npz file. Arrays are stored as float64,
// which numpy loads without conversion.
func Save[B tensor.Backend](path string, batch *Batch[B]) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	defer f.Close()

	archive := zip.NewWriter(f)
	entries := []struct {
		key string
		t   *tensor.Tensor[float32, B]
	}{
		{sensorsKey, batch.Sensors},
		{queriesKey, batch.Queries},
		{targetsKey, batch.Targets},
	}
	for _, e := range entries {
		if err := writeEntry(archive, e.key, e.t); err != nil {
			return fmt.Errorf("dataset: entry %s: %w", e.key, err)
		}
	}

	if err := archive.Close(); err != nil {
		return fmt.Errorf("dataset: finalize %s: %w", path, err)
	}
	return nil
}

// writeEntry encodes one tensor as an .npy entry in the archive.
func writeEntry[B tensor.Backend](archive *zip.Writer, key string, t *tensor.Tensor[float32, B]) error {
	w, err := archive.Create(key + ".npy")
	if err != nil {
		return err
	}

	shape := t.Shape()
	src := t.Data()
	data := make([]float64, len(src))
	for i, v := range src {
		data[i] = float64(v)
	}

	return npyio.Write(w, mat.NewDense(shape[0], shape[1], data))
}
