// Package lock implementa ports.KeyedLocker: en proceso (una instancia) o sobre Redis (varias).
package lock

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
)

var _ ports.KeyedLocker = (*LocalLocker)(nil)

// LocalLocker mutex por clave dentro del proceso. Las entradas se liberan cuando nadie las usa.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{} // capacidad 1: lleno = tomado
	refs int
}

// NewLocalLocker construye el locker en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

// Acquire toma las claves en orden. Si ctx termina antes, libera lo tomado y devuelve ctx.Err().
func (l *LocalLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	held := make([]string, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.unlock(held[i])
		}
	}
	for _, k := range keys {
		e := l.ref(k)
		select {
		case e.ch <- struct{}{}:
			held = append(held, k)
		case <-ctx.Done():
			l.unref(k)
			release()
			return nil, ctx.Err()
		}
	}
	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *LocalLocker) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *LocalLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *LocalLocker) unlock(key string) {
	l.mu.Lock()
	e := l.locks[key]
	l.mu.Unlock()
	<-e.ch
	l.unref(key)
}

// normalize ordena y quita duplicados para que todos tomen las claves en el mismo orden.
func normalize(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	j := 0
	for i, k := range out {
		if i > 0 && k == out[j-1] {
			continue
		}
		out[j] = k
		j++
	}
	return out[:j]
}
