package dependency

import (
	"github.com/google/uuid"
	"github.com/hdnguyen/salesboard/internal/category"
	"github.com/hdnguyen/salesboard/internal/dataset"
	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/hdnguyen/salesboard/internal/report"
)

type (
	// Datasets stores uploaded datasets for the session.
	Datasets interface {
		Put(name string, rows []entity.TransactionRow, m *category.Map) *dataset.Dataset
		Get(id uuid.UUID) (*dataset.Dataset, error)
		Delete(id uuid.UUID) error
	}

	// Reports runs the aggregation pipeline over a dataset.
	Reports interface {
		Compute(rows []entity.TransactionRow, m *category.Map, f entity.FilterSet, opts report.ComputeOptions) (*entity.Report, error)
	}
)
