package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"pybridge/internal/classify"
	"pybridge/internal/decl"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит дескрипторы уже проверенных батчей на диске, ключ -
// SHA-256 содержимого batch-файла. Кешируются только батчи без диагностик.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the descriptors of one clean batch for fast rechecks.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Type   string
	Source string

	Descriptors []DescriptorPayload
}

// DescriptorPayload is the cached form of a method descriptor. Spans are not
// cached: a clean batch has no diagnostics to anchor.
type DescriptorPayload struct {
	GoName string
	PyName string
	Role   uint8

	Receiver uint8
	Params   []ParamPayload

	TextSignature string
	HasTextSig    bool
}

type ParamPayload struct {
	Name       string
	Type       string
	HasDefault bool
	Opaque     bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key [sha256.Size]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки - подкаталог "batches".
	return filepath.Join(c.dir, "batches", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key [sha256.Size]byte, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key [sha256.Size]byte, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p) // #nosec G304 -- path is derived from the cache dir and a hex digest
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим целиком
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// descriptorsToPayload converts validated descriptors to the cached form.
func descriptorsToPayload(batchType, src string, descs []*classify.Descriptor) *DiskPayload {
	payload := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Type:   batchType,
		Source: src,
	}

	payload.Descriptors = make([]DescriptorPayload, len(descs))
	for i, d := range descs {
		dp := DescriptorPayload{
			GoName:        d.GoName,
			PyName:        d.PyName,
			Role:          uint8(d.Role),
			Receiver:      uint8(d.Receiver),
			TextSignature: d.TextSignature,
			HasTextSig:    d.HasTextSig,
		}
		dp.Params = make([]ParamPayload, len(d.Params))
		for j, p := range d.Params {
			dp.Params[j] = ParamPayload{
				Name:       p.Name,
				Type:       p.Type,
				HasDefault: p.HasDefault,
				Opaque:     p.Opaque,
			}
		}
		payload.Descriptors[i] = dp
	}

	return payload
}

// payloadToDescriptors converts a cached payload back to descriptors
// (without spans).
func payloadToDescriptors(payload *DiskPayload) []*classify.Descriptor {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}

	descs := make([]*classify.Descriptor, len(payload.Descriptors))
	for i, dp := range payload.Descriptors {
		d := &classify.Descriptor{
			GoName:        dp.GoName,
			PyName:        dp.PyName,
			Role:          classify.Role(dp.Role),
			Receiver:      decl.ReceiverKind(dp.Receiver),
			TextSignature: dp.TextSignature,
			HasTextSig:    dp.HasTextSig,
		}
		if len(dp.Params) > 0 {
			d.Params = make([]decl.Param, len(dp.Params))
			for j, pp := range dp.Params {
				// Позиции не кешируются, остаются нулевые span'ы
				d.Params[j] = decl.Param{
					Name:       pp.Name,
					Type:       pp.Type,
					HasDefault: pp.HasDefault,
					Opaque:     pp.Opaque,
				}
			}
		}
		descs[i] = d
	}
	return descs
}
