package api

// Product mirrors a record from GET /productos.
//
// InternalID is the authoritative key the server requires on every mutating
// call. DisplayID is the stable human-facing reference ("P001") used as the
// local lookup key for UI state. Mutations must never be issued against the
// display key.
type Product struct {
	InternalID int64  `json:"id"`
	DisplayID  string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// Patch describes a partial product update. Nil fields are omitted from the
// request body so the server never sees an unintended overwrite.
type Patch struct {
	Name     *string
	Quantity *int
}

// The wire uses its own canonical field names for mutation bodies. Callers
// speak name/quantity; the request types below translate.

type createRequest struct {
	Name     string `json:"nombre"`
	Quantity int    `json:"cantidad"`
}

type updateRequest struct {
	Name     *string `json:"nombre,omitempty"`
	Quantity *int    `json:"cantidad,omitempty"`
}

type adviceResponse struct {
	Advice string `json:"consejo"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}
