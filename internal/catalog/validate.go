package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the catalog format major version this build understands.
const SupportedMajor = "v1"

var (
	validateOnce sync.Once
	structCheck  *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		structCheck = validator.New(validator.WithRequiredStructEnabled())
	})
	return structCheck
}

// ValidateLesson checks a single lesson in isolation.
func ValidateLesson(l Lesson) error {
	errs := lessonProblems(l)
	if len(errs) > 0 {
		return fmt.Errorf("lesson validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// validateCatalog runs every structural check and reports all problems at once.
func validateCatalog(version string, lessons []Lesson) error {
	var errs []string

	switch {
	case !semver.IsValid(version):
		errs = append(errs, fmt.Sprintf("invalid catalog version %q", version))
	case semver.Major(version) != SupportedMajor:
		errs = append(errs, fmt.Sprintf("unsupported catalog version %s (want %s.x.y)", version, SupportedMajor))
	}

	if len(lessons) == 0 {
		errs = append(errs, "catalog has no lessons")
	}

	seen := make(map[string]bool, len(lessons))
	for _, l := range lessons {
		if seen[l.Name] {
			errs = append(errs, fmt.Sprintf("duplicate lesson name: %q", l.Name))
		}
		seen[l.Name] = true
		errs = append(errs, lessonProblems(l)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func lessonProblems(l Lesson) []string {
	var errs []string

	if err := structValidator().Struct(l); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("lesson %q: %s failed %q", l.Name, fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, fmt.Sprintf("lesson %q: %v", l.Name, err))
		}
	}

	for i, q := range l.Questions {
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			errs = append(errs, fmt.Sprintf("lesson %q question %d: correct index %d out of range [0,%d)", l.Name, i+1, q.Correct, len(q.Options)))
		}
		opts := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if opts[o] {
				errs = append(errs, fmt.Sprintf("lesson %q question %d: duplicate option %q", l.Name, i+1, o))
			}
			opts[o] = true
		}
	}
	return errs
}
