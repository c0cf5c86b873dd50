package api

// ProductRequest is the body of POST /v1/products. A and B are row lists;
// a missing operand is an error, an empty list is a 0×0 matrix.
type ProductRequest struct {
	Algorithm string      `json:"algorithm"`
	DType     string      `json:"dtype"`
	Workers   int         `json:"workers,omitempty"`
	A         [][]float64 `json:"a"`
	B         [][]float64 `json:"b"`
}

// Product is a computed result as returned to clients.
type Product struct {
	ID        string      `json:"id"`
	Object    string      `json:"object"`
	CreatedAt int64       `json:"created_at"`
	Algorithm string      `json:"algorithm"`
	DType     string      `json:"dtype"`
	Rows      int         `json:"rows"`
	Cols      int         `json:"cols"`
	ElapsedMS float64     `json:"elapsed_ms"`
	Result    [][]float64 `json:"result"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

type AlgorithmList struct {
	Object string   `json:"object"`
	Data   []string `json:"data"`
}

type Health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Workers  int    `json:"workers"`
	Products int    `json:"products"`
}
