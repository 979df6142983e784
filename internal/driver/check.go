package driver

import (
	"context"
	"crypto/sha256"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"pybridge/internal/classify"
	"pybridge/internal/decl"
	"pybridge/internal/diag"
	"pybridge/internal/source"
)

// BatchExt is the extension declaration batch files carry on disk.
const BatchExt = ".decls.json"

// DefaultMaxDiagnostics ограничивает bag файла, если лимит не задан.
const DefaultMaxDiagnostics = 1000

// Options управляет прогоном проверки.
type Options struct {
	// MaxDiagnostics ограничивает размер bag'а каждого файла.
	MaxDiagnostics int
	// Jobs задаёт число воркеров; <= 0 означает GOMAXPROCS.
	Jobs int
	// Cache, если задан, используется для пропуска уже проверенных батчей.
	Cache *DiskCache
}

// FileResult содержит результат проверки одного batch-файла.
type FileResult struct {
	Path        string                 // путь к batch-файлу
	Type        string                 // имя типа из батча
	File        source.FileID          // ID исходника в FileSet
	Descriptors []*classify.Descriptor // дескрипторы прошедших деклараций
	Bag         *diag.Bag              // диагностики
	FromCache   bool                   // результат восстановлен из кеша
}

// listBatchFiles возвращает отсортированный список всех batch-файлов в директории.
func listBatchFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, BatchExt) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir проверяет все batch-файлы в директории параллельно.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := listBatchFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	return CheckFiles(ctx, files, dir, opts)
}

// CheckFiles проверяет заданные batch-файлы параллельно. Файлы читаются и
// декодируются последовательно (FileSet не потокобезопасен на запись),
// классификация каждого батча идёт в своей горутине.
func CheckFiles(ctx context.Context, files []string, baseDir string, opts Options) (*source.FileSet, []FileResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = DefaultMaxDiagnostics
	}

	type loaded struct {
		batch   *decl.Batch
		cached  *DiskPayload
		hash    [sha256.Size]byte
		read    bool          // файл успешно прочитан с диска
		err     error         // ошибка чтения либо декодирования
		errFile source.FileID // batch-файл, к которому привязана ошибка
	}
	slots := make([]loaded, len(files))

	for i, path := range files {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the caller's directory walk
		if err != nil {
			slots[i].err = err
			// Регистрируем сам batch-файл, чтобы диагностика имела путь
			slots[i].errFile = fileSet.AddVirtual(path, nil)
			continue
		}
		slots[i].read = true
		slots[i].hash = sha256.Sum256(data)

		if opts.Cache != nil {
			var payload DiskPayload
			if ok, cerr := opts.Cache.Get(slots[i].hash, &payload); cerr == nil && ok {
				if payload.Schema == diskCacheSchemaVersion {
					slots[i].cached = &payload
					continue
				}
			}
		}

		batch, err := decl.DecodeBatch(fileSet, data, filepath.Dir(path))
		if err != nil {
			slots[i].err = err
			slots[i].errFile = fileSet.AddVirtual(path, data)
		}
		slots[i].batch = batch
	}

	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(opts.MaxDiagnostics)
				slot := &slots[i]

				if slot.cached != nil {
					results[i] = FileResult{
						Path:        path,
						Type:        slot.cached.Type,
						Descriptors: payloadToDescriptors(slot.cached),
						Bag:         bag,
						FromCache:   true,
					}
					return nil
				}

				if slot.err != nil {
					code := diag.IOLoadFileError
					msg := "failed to load file: " + slot.err.Error()
					if slot.read {
						code = diag.IODecodeError
						msg = "failed to decode batch: " + slot.err.Error()
					}
					bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     code,
						Message:  msg,
						// Якорь в начале самого batch-файла
						Primary: source.Span{File: slot.errFile},
					})
					results[i] = FileResult{Path: path, File: slot.errFile, Bag: bag}
					return nil
				}

				descs := classify.CheckBatch(slot.batch, bag)
				results[i] = FileResult{
					Path:        path,
					Type:        slot.batch.Type,
					File:        slot.batch.File,
					Descriptors: descs,
					Bag:         bag,
				}

				if opts.Cache != nil && bag.Len() == 0 {
					// Кеш пишется по возможности; неудача не срывает проверку.
					payload := descriptorsToPayload(slot.batch.Type, slot.batch.Source, descs)
					_ = opts.Cache.Put(slot.hash, payload)
				}
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// Collect сливает диагностики всех результатов в один bag в порядке файлов.
func Collect(results []FileResult, bag *diag.Bag) {
	for _, r := range results {
		bag.Merge(r.Bag)
	}
}
