package deal

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/mcp-dealcalc-go/internal/calculations"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/metrics"
)

var (
	ErrScenarioNotFound = errors.New("сценарий финансирования не найден")
	ErrLineNotFound     = errors.New("статья не найдена")
	ErrPhaseNotFound    = errors.New("этап ремонта не найден")
	ErrInvalidMonth     = errors.New("месяц T12 вне диапазона 0-11")
)

// Snapshot неизменяемая копия сделки с номером версии
type Snapshot struct {
	Version uint64            `json:"version"`
	Deal    calculations.Deal `json:"deal"`
}

// Store хранит единственную редактируемую сделку.
// Каждое изменение увеличивает версию и возвращает свежий снимок.
type Store struct {
	mu      sync.RWMutex
	deal    calculations.Deal
	version uint64
	logger  *logrus.Logger
}

// NewStore создаёт хранилище с начальной сделкой
func NewStore(initial calculations.Deal, logger *logrus.Logger) *Store {
	metrics.DealVersion.Set(1)
	d := initial.Clone()
	ensureUniqueIDs(&d)
	return &Store{
		deal:    d,
		version: 1,
		logger:  logger,
	}
}

// Snapshot возвращает копию текущей сделки
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Version: s.version, Deal: s.deal.Clone()}
}

func (s *Store) update(action string, fn func(d *calculations.Deal) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.deal.Clone()
	if err := fn(&next); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("deal update rejected")
		return Snapshot{}, err
	}

	s.deal = next
	s.version++
	metrics.DealVersion.Set(float64(s.version))
	s.logger.WithFields(logrus.Fields{
		"action":  action,
		"version": s.version,
	}).Debug("deal updated")

	return Snapshot{Version: s.version, Deal: s.deal.Clone()}, nil
}

// Replace заменяет сделку целиком
func (s *Store) Replace(d calculations.Deal) Snapshot {
	snap, _ := s.update("replace", func(cur *calculations.Deal) error {
		*cur = d.Clone()
		ensureUniqueIDs(cur)
		return nil
	})
	return snap
}

// UpdateProperty заменяет параметры объекта
func (s *Store) UpdateProperty(p calculations.PropertyMeta) Snapshot {
	snap, _ := s.update("update_property", func(d *calculations.Deal) error {
		d.Property = p
		return nil
	})
	return snap
}

// SetProjection заменяет допущения прогноза
func (s *Store) SetProjection(a calculations.ProjectionAssumptions) Snapshot {
	snap, _ := s.update("set_projection", func(d *calculations.Deal) error {
		d.Projection = a
		return nil
	})
	return snap
}

// SetUseT12 переключает источник данных между T12 и постатейным учётом
func (s *Store) SetUseT12(use bool) Snapshot {
	snap, _ := s.update("set_use_t12", func(d *calculations.Deal) error {
		d.UseT12 = use
		return nil
	})
	return snap
}

// AddIncome добавляет статью дохода
func (s *Store) AddIncome(line calculations.IncomeLine) Snapshot {
	snap, _ := s.update("add_income", func(d *calculations.Deal) error {
		d.Incomes = append(d.Incomes, line)
		return nil
	})
	return snap
}

// UpdateIncome заменяет статью дохода по индексу
func (s *Store) UpdateIncome(index int, line calculations.IncomeLine) (Snapshot, error) {
	return s.update("update_income", func(d *calculations.Deal) error {
		if index < 0 || index >= len(d.Incomes) {
			return ErrLineNotFound
		}
		d.Incomes[index] = line
		return nil
	})
}

// RemoveIncome удаляет статью дохода по индексу
func (s *Store) RemoveIncome(index int) (Snapshot, error) {
	return s.update("remove_income", func(d *calculations.Deal) error {
		if index < 0 || index >= len(d.Incomes) {
			return ErrLineNotFound
		}
		d.Incomes = append(d.Incomes[:index], d.Incomes[index+1:]...)
		return nil
	})
}

// AddExpense добавляет статью расходов
func (s *Store) AddExpense(line calculations.ExpenseLine) Snapshot {
	snap, _ := s.update("add_expense", func(d *calculations.Deal) error {
		d.Expenses = append(d.Expenses, line)
		return nil
	})
	return snap
}

// UpdateExpense заменяет статью расходов по индексу
func (s *Store) UpdateExpense(index int, line calculations.ExpenseLine) (Snapshot, error) {
	return s.update("update_expense", func(d *calculations.Deal) error {
		if index < 0 || index >= len(d.Expenses) {
			return ErrLineNotFound
		}
		d.Expenses[index] = line
		return nil
	})
}

// RemoveExpense удаляет статью расходов по индексу
func (s *Store) RemoveExpense(index int) (Snapshot, error) {
	return s.update("remove_expense", func(d *calculations.Deal) error {
		if index < 0 || index >= len(d.Expenses) {
			return ErrLineNotFound
		}
		d.Expenses = append(d.Expenses[:index], d.Expenses[index+1:]...)
		return nil
	})
}

// AddScenario добавляет сценарий финансирования с новым идентификатором
func (s *Store) AddScenario(sc calculations.LoanScenario) Snapshot {
	snap, _ := s.update("add_scenario", func(d *calculations.Deal) error {
		maxID := 0
		for _, existing := range d.Scenarios {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		sc.ID = maxID + 1
		d.Scenarios = append(d.Scenarios, sc)
		return nil
	})
	return snap
}

// UpdateScenario заменяет параметры сценария, сохраняя его идентификатор
func (s *Store) UpdateScenario(id int, sc calculations.LoanScenario) (Snapshot, error) {
	return s.update("update_scenario", func(d *calculations.Deal) error {
		i := scenarioIndex(d.Scenarios, id)
		if i < 0 {
			return ErrScenarioNotFound
		}
		sc.ID = id
		d.Scenarios[i] = sc
		return nil
	})
}

// RemoveScenario удаляет сценарий. Удаление последнего сценария допустимо:
// сделка считается без кредита.
func (s *Store) RemoveScenario(id int) (Snapshot, error) {
	return s.update("remove_scenario", func(d *calculations.Deal) error {
		i := scenarioIndex(d.Scenarios, id)
		if i < 0 {
			return ErrScenarioNotFound
		}
		d.Scenarios = append(d.Scenarios[:i], d.Scenarios[i+1:]...)
		return nil
	})
}

// ActivateScenario делает сценарий активным, перемещая его в начало списка
func (s *Store) ActivateScenario(id int) (Snapshot, error) {
	return s.update("activate_scenario", func(d *calculations.Deal) error {
		i := scenarioIndex(d.Scenarios, id)
		if i < 0 {
			return ErrScenarioNotFound
		}
		active := d.Scenarios[i]
		copy(d.Scenarios[1:i+1], d.Scenarios[:i])
		d.Scenarios[0] = active
		return nil
	})
}

// AddRenovation добавляет этап ремонта с новым идентификатором
func (s *Store) AddRenovation(phase calculations.RenovationPhase) Snapshot {
	snap, _ := s.update("add_renovation", func(d *calculations.Deal) error {
		maxID := 0
		for _, existing := range d.Renovations {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		phase.ID = maxID + 1
		d.Renovations = append(d.Renovations, phase)
		return nil
	})
	return snap
}

// RemoveRenovation удаляет этап ремонта
func (s *Store) RemoveRenovation(id int) (Snapshot, error) {
	return s.update("remove_renovation", func(d *calculations.Deal) error {
		for i, phase := range d.Renovations {
			if phase.ID == id {
				d.Renovations = append(d.Renovations[:i], d.Renovations[i+1:]...)
				return nil
			}
		}
		return ErrPhaseNotFound
	})
}

// SetT12Month задаёт доход и расход за месяц ведомости T12
func (s *Store) SetT12Month(month int, income, expense float64) (Snapshot, error) {
	return s.update("set_t12_month", func(d *calculations.Deal) error {
		if month < 0 || month >= calculations.T12Months {
			return ErrInvalidMonth
		}
		d.T12 = d.T12.WithIncome(month, income).WithExpense(month, expense)
		return nil
	})
}

func scenarioIndex(scenarios []calculations.LoanScenario, id int) int {
	for i, sc := range scenarios {
		if sc.ID == id {
			return i
		}
	}
	return -1
}

// ensureUniqueIDs выдаёт новые идентификаторы (max+1) сценариям и этапам ремонта
// с неположительным или повторяющимся id. Первое вхождение id сохраняется.
func ensureUniqueIDs(d *calculations.Deal) {
	ids := make([]int, len(d.Scenarios))
	for i, sc := range d.Scenarios {
		ids[i] = sc.ID
	}
	uniqueIDs(ids)
	for i := range d.Scenarios {
		d.Scenarios[i].ID = ids[i]
	}

	ids = make([]int, len(d.Renovations))
	for i, phase := range d.Renovations {
		ids[i] = phase.ID
	}
	uniqueIDs(ids)
	for i := range d.Renovations {
		d.Renovations[i].ID = ids[i]
	}
}

func uniqueIDs(ids []int) {
	keep := make([]bool, len(ids))
	seen := make(map[int]bool, len(ids))
	maxID := 0
	for i, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			keep[i] = true
			if id > maxID {
				maxID = id
			}
		}
	}
	for i := range ids {
		if !keep[i] {
			maxID++
			ids[i] = maxID
		}
	}
}
