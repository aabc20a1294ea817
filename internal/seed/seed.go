// Package seed fills a database with a bounded department forest and a large
// set of employees for local development and load checks.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dimatakoy/org-demo/internal/hierarchy"
	"github.com/dimatakoy/org-demo/internal/service"
)

var PositionTitles = []string{
	"Chief Executive Officer",
	"Chief Financial Officer",
	"CTO",
	"Head of Department",
	"Project Manager",
	"Team Lead",
	"Senior Backend Developer",
	"Middle Backend Developer",
	"Frontend Developer",
	"QA Engineer",
	"DevOps Engineer",
	"HR Specialist",
	"Accountant",
	"Lawyer",
	"Office Manager",
}

const (
	minSalary        = 40_000
	maxSalary        = 450_000
	hireWindowDays   = 365 * 5
	maxTitleRunes    = 100
	defaultSeed      = 1
)

type Store interface {
	EnsurePosition(ctx context.Context, title string) (service.PositionDTO, error)
	ListDepartmentLevels(ctx context.Context) ([]service.DepartmentLevel, error)
	CreateDepartment(ctx context.Context, input service.CreateDepartmentInput) (service.DepartmentDTO, error)
	BulkCreateEmployees(ctx context.Context, inputs []service.CreateEmployeeInput, batchSize int) (int, error)
}

type Options struct {
	Departments int
	Employees   int
	BatchSize   int
	MaxDepth    int
	// RootChance is the probability of starting a new root even when a
	// valid parent was drawn.
	RootChance float64
	Seed       int64
	Now        func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Departments: 25,
		Employees:   50_000,
		BatchSize:   2000,
		MaxDepth:    hierarchy.MaxDepth,
		RootChance:  0.1,
		Seed:        defaultSeed,
		Now:         time.Now,
	}
}

func (o Options) Validate() error {
	switch {
	case o.Departments < 0:
		return fmt.Errorf("departments must be non-negative, got %d", o.Departments)
	case o.Employees < 0:
		return fmt.Errorf("employees must be non-negative, got %d", o.Employees)
	case o.BatchSize <= 0:
		return fmt.Errorf("batch size must be positive, got %d", o.BatchSize)
	case o.MaxDepth < 1 || o.MaxDepth > hierarchy.MaxDepth:
		return fmt.Errorf("max depth must be between 1 and %d, got %d", hierarchy.MaxDepth, o.MaxDepth)
	case o.RootChance < 0 || o.RootChance > 1:
		return fmt.Errorf("root chance must be between 0 and 1, got %v", o.RootChance)
	}
	return nil
}

type Result struct {
	Positions   int
	Departments int
	Employees   int
}

type Seeder struct {
	store  Store
	logger logrus.FieldLogger
}

func NewSeeder(store Store, logger logrus.FieldLogger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

func (s *Seeder) Run(ctx context.Context, options Options) (Result, error) {
	if err := options.Validate(); err != nil {
		return Result{}, err
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	rng := rand.New(rand.NewSource(options.Seed))
	fake := faker.NewWithSeed(rand.NewSource(options.Seed))

	positions, err := s.ensurePositions(ctx)
	if err != nil {
		return Result{}, err
	}
	s.logger.WithField("count", len(positions)).Info("positions ready")

	departments, err := s.growForest(ctx, rng, fake, options)
	if err != nil {
		return Result{}, err
	}
	s.logger.WithField("count", len(departments)).Info("departments ready")

	created, err := s.createEmployees(ctx, rng, fake, options, positions, departments)
	if err != nil {
		return Result{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"employees":   created,
		"departments": len(departments),
	}).Info("seeding done")

	return Result{
		Positions:   len(positions),
		Departments: len(departments),
		Employees:   created,
	}, nil
}

func (s *Seeder) ensurePositions(ctx context.Context) ([]uint, error) {
	ids := make([]uint, 0, len(PositionTitles))
	for _, title := range PositionTitles {
		position, err := s.store.EnsurePosition(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("ensure position %q: %w", title, err)
		}
		ids = append(ids, position.ID)
	}
	return ids, nil
}

// growForest tops the existing departments up to options.Departments. Each new
// department hangs under a random existing one unless that parent is already
// at options.MaxDepth or the root chance fires.
func (s *Seeder) growForest(ctx context.Context, rng *rand.Rand, fake faker.Faker, options Options) ([]service.DepartmentLevel, error) {
	departments, err := s.store.ListDepartmentLevels(ctx)
	if err != nil {
		return nil, err
	}

	for len(departments) < options.Departments {
		input := service.CreateDepartmentInput{Title: departmentTitle(fake)}
		depth := 1

		if len(departments) > 0 {
			candidate := departments[rng.Intn(len(departments))]
			if candidate.Depth < options.MaxDepth && rng.Float64() >= options.RootChance {
				parentID := candidate.ID
				input.ParentID = &parentID
				depth = candidate.Depth + 1
			}
		}

		department, err := s.store.CreateDepartment(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("create department: %w", err)
		}
		departments = append(departments, service.DepartmentLevel{ID: department.ID, Depth: depth})
	}
	return departments, nil
}

func (s *Seeder) createEmployees(
	ctx context.Context,
	rng *rand.Rand,
	fake faker.Faker,
	options Options,
	positions []uint,
	departments []service.DepartmentLevel,
) (int, error) {
	person := fake.Person()
	today := truncateToDate(options.Now())

	batch := make([]service.CreateEmployeeInput, 0, options.BatchSize)
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		created, err := s.store.BulkCreateEmployees(ctx, batch, options.BatchSize)
		if err != nil {
			return fmt.Errorf("insert employees batch: %w", err)
		}
		total += created
		batch = batch[:0]
		s.logger.WithField("created", total).Debug("employees batch stored")
		return nil
	}

	for i := 0; i < options.Employees; i++ {
		amount := decimal.NewFromInt(int64(minSalary + rng.Intn(maxSalary-minSalary+1)))
		middleName := person.FirstNameMale()

		input := service.CreateEmployeeInput{
			FirstName:  person.FirstName(),
			LastName:   person.LastName(),
			MiddleName: &middleName,
			Amount:     &amount,
			HireDate:   today.AddDate(0, 0, -rng.Intn(hireWindowDays+1)),
		}
		if len(positions) > 0 {
			positionID := positions[rng.Intn(len(positions))]
			input.PositionID = &positionID
		}
		if len(departments) > 0 {
			departmentID := departments[rng.Intn(len(departments))].ID
			input.DepartmentID = &departmentID
		}

		batch = append(batch, input)
		if len(batch) >= options.BatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

func departmentTitle(fake faker.Faker) string {
	words := fake.Lorem().Words(2 + fake.IntBetween(0, 2))
	title := strings.TrimSpace(strings.Join(words, " ")) + " department"
	r, size := utf8.DecodeRuneInString(title)
	title = string(unicode.ToUpper(r)) + title[size:]
	if utf8.RuneCountInString(title) > maxTitleRunes {
		title = string([]rune(title)[:maxTitleRunes])
	}
	return title
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
