// Package adapter хранит состояние загрузки одного виджета вместе
// с последним успешным результатом запроса к API.
package adapter

import (
	"context"
	"log"
	"sync"
	"time"
)

// Placeholder показывается вместо значения, пока идёт загрузка.
const Placeholder = "..."

// FetchFunc выполняет один запрос к API.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State представляет копию состояния адаптера на момент вызова Snapshot.
type State[T any] struct {
	Loading    bool
	Err        error
	Result     T
	HasResult  bool
	Generation uint64
	UpdatedAt  time.Time
}

// Adapter выполняет запросы и не даёт ответу более раннего запроса
// перезаписать уже применённый ответ более позднего.
type Adapter[T any] struct {
	name string

	mu         sync.Mutex
	loading    bool
	err        error
	result     T
	hasResult  bool
	generation uint64
	applied    uint64
	updatedAt  time.Time
}

// New создает адаптер. name используется только в логах.
// Адаптер начинает в состоянии загрузки, как виджет до первого запроса.
func New[T any](name string) *Adapter[T] {
	return &Adapter[T]{name: name, loading: true}
}

// Load выполняет fetch и применяет результат, если ещё не применён ответ
// более нового Load. Возвращает true, если результат был применён.
// Успешный результат заменяет предыдущий целиком; ошибка оставляет прежний
// результат и выставляет Err. Повторных попыток нет.
func (a *Adapter[T]) Load(ctx context.Context, fetch FetchFunc[T]) bool {
	a.mu.Lock()
	a.generation++
	gen := a.generation
	a.loading = true
	a.mu.Unlock()

	result, err := fetch(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if gen == a.generation {
		a.loading = false
	}
	if gen <= a.applied {
		log.Printf("[adapter] %s: dropping stale response (generation %d, applied %d)", a.name, gen, a.applied)
		return false
	}
	a.applied = gen
	if err != nil {
		log.Printf("[adapter] %s: fetch failed: %v", a.name, err)
		a.err = err
		return true
	}

	a.err = nil
	a.result = result
	a.hasResult = true
	a.updatedAt = time.Now()
	return true
}

// Snapshot возвращает копию текущего состояния.
func (a *Adapter[T]) Snapshot() State[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State[T]{
		Loading:    a.loading,
		Err:        a.err,
		Result:     a.result,
		HasResult:  a.hasResult,
		Generation: a.generation,
		UpdatedAt:  a.updatedAt,
	}
}

// Result возвращает последний успешный результат.
func (a *Adapter[T]) Result() (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result, a.hasResult
}
