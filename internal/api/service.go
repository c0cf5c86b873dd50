package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/logger"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrixio"
)

// ServiceConfig bounds what a single request may ask for.
type ServiceConfig struct {
	// MaxElements caps the element count of each operand. Zero means no cap.
	MaxElements int
	// Workers is the default worker count for parallel algorithms; zero
	// selects GOMAXPROCS.
	Workers int
}

// MultiplyService turns requests into products.
type MultiplyService struct {
	cfg   ServiceConfig
	clock func() time.Time
}

func NewMultiplyService(cfg ServiceConfig) *MultiplyService {
	return &MultiplyService{cfg: cfg, clock: time.Now}
}

// Multiply validates req and computes A×B with the requested algorithm.
func (s *MultiplyService) Multiply(ctx context.Context, req ProductRequest) (Product, error) {
	if req.A == nil || req.B == nil {
		return Product{}, fmt.Errorf("%w: operands a and b are required", matrix.ErrNilInput)
	}
	alg := matmul.ReorderedParallel
	if req.Algorithm != "" {
		parsed, err := matmul.ParseAlgorithm(req.Algorithm)
		if err != nil {
			return Product{}, err
		}
		alg = parsed
	}
	dtype := matrixio.DTypeFloat
	if req.DType != "" {
		parsed, err := matrixio.ParseDType(req.DType)
		if err != nil {
			return Product{}, err
		}
		dtype = parsed
	}
	if err := s.checkSize(req.A, req.B); err != nil {
		return Product{}, err
	}
	workers := req.Workers
	if workers == 0 {
		workers = s.cfg.Workers
	}

	docA := matrixio.Document{DType: dtype, Rows: req.A}
	docB := matrixio.Document{DType: dtype, Rows: req.B}

	var (
		rows    [][]float64
		elapsed time.Duration
		err     error
	)
	switch dtype {
	case matrixio.DTypeInt:
		rows, elapsed, err = multiplyDocs(alg, workers, docA, docB, matrixio.Document.Ints)
	default:
		rows, elapsed, err = multiplyDocs(alg, workers, docA, docB, matrixio.Document.Floats)
	}
	if err != nil {
		return Product{}, err
	}

	p := Product{
		ID:        newProductID(),
		Object:    "matrix.product",
		CreatedAt: s.clock().Unix(),
		Algorithm: alg.String(),
		DType:     string(dtype),
		Rows:      len(rows),
		ElapsedMS: float64(elapsed) / float64(time.Millisecond),
		Result:    rows,
	}
	if len(rows) > 0 {
		p.Cols = len(rows[0])
	} else if len(req.B) > 0 {
		p.Cols = len(req.B[0])
	}
	logger.FromContext(ctx).Debug("product computed",
		"id", p.ID, "algorithm", p.Algorithm, "rows", p.Rows, "cols", p.Cols, "elapsed", elapsed)
	return p, nil
}

func (s *MultiplyService) checkSize(a, b [][]float64) error {
	if err := s.checkElements("operand a", len(a), width(a)); err != nil {
		return err
	}
	if err := s.checkElements("operand b", len(b), width(b)); err != nil {
		return err
	}
	return s.checkElements("product", len(a), width(b))
}

// checkElements rejects r×c above the cap without computing r*c, which may
// overflow for hostile dimensions.
func (s *MultiplyService) checkElements(what string, r, c int) error {
	limit := s.cfg.MaxElements
	if limit <= 0 || r == 0 || c == 0 {
		return nil
	}
	if c > limit/r {
		return fmt.Errorf("%w: %s of %dx%d exceeds limit of %d elements", ErrTooLarge, what, r, c, limit)
	}
	return nil
}

func width(rows [][]float64) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}

func multiplyDocs[T matrix.Number](
	alg matmul.Algorithm,
	workers int,
	a, b matrixio.Document,
	convert func(matrixio.Document) (*matrix.Mat[T], error),
) ([][]float64, time.Duration, error) {
	A, err := convert(a)
	if err != nil {
		return nil, 0, fmt.Errorf("operand a: %w", err)
	}
	B, err := convert(b)
	if err != nil {
		return nil, 0, fmt.Errorf("operand b: %w", err)
	}
	fn, err := matmul.LookupN[T](alg, workers)
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	C, err := fn(A, B)
	elapsed := time.Since(start)
	if err != nil {
		return nil, 0, err
	}
	return matrixio.FromMatrix(matrixio.DTypeFloat, C).Rows, elapsed, nil
}

// errorStatus maps service errors onto HTTP status, type and code.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, matrix.ErrShapeMismatch):
		return http.StatusUnprocessableEntity, "invalid_request_error", "shape_mismatch"
	case errors.Is(err, matrix.ErrNilInput):
		return http.StatusBadRequest, "invalid_request_error", "missing_operand"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "invalid_request_error", "too_large"
	case errors.Is(err, matmul.ErrUnknownAlgorithm):
		return http.StatusBadRequest, "invalid_request_error", "unknown_algorithm"
	case errors.Is(err, matrixio.ErrUnknownDType):
		return http.StatusBadRequest, "invalid_request_error", "unknown_dtype"
	case errors.Is(err, matrix.ErrRagged):
		return http.StatusBadRequest, "invalid_request_error", "ragged_rows"
	case errors.Is(err, matrixio.ErrNotInteger):
		return http.StatusBadRequest, "invalid_request_error", "not_integer"
	case errors.Is(err, matrixio.ErrOutOfRange):
		return http.StatusBadRequest, "invalid_request_error", "out_of_range"
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request_error", requestErrorCode(err)
	}
	return http.StatusInternalServerError, "server_error", ""
}
