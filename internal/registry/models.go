package registry

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// citizenKnownKeys are the response keys mapped onto fixed struct fields.
// Everything else lands in Extra so either historical response shape of
// the registry round-trips unchanged.
var citizenKnownKeys = map[string]bool{
	"cedula":          true,
	"nombre":          true,
	"fechanacimiento": true,
	"domicilio":       true,
	"estado":          true,
	"estadocivil":     true,
	"fechaexpedicion": true,
	"instruccion":     true,
	"lugarnacimiento": true,
	"nacionalidad":    true,
	"profesion":       true,
}

// CitizenRecord is an open-shaped registry record: a fixed set of known
// civil-registry fields plus an extension map that preserves every other
// key the registry returns. The view layer renders all fields present,
// not a fixed subset.
type CitizenRecord struct {
	Cedula          string
	Nombre          string
	FechaNacimiento string
	Domicilio       string
	Estado          string
	EstadoCivil     string
	FechaExpedicion string
	Instruccion     string
	LugarNacimiento string
	Nacionalidad    string
	Profesion       string
	Extra           map[string]any
}

func (r *CitizenRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(key string) string {
		if v, ok := raw[key].(string); ok {
			return v
		}
		return ""
	}

	*r = CitizenRecord{
		Cedula:          str("cedula"),
		Nombre:          str("nombre"),
		FechaNacimiento: str("fechanacimiento"),
		Domicilio:       str("domicilio"),
		Estado:          str("estado"),
		EstadoCivil:     str("estadocivil"),
		FechaExpedicion: str("fechaexpedicion"),
		Instruccion:     str("instruccion"),
		LugarNacimiento: str("lugarnacimiento"),
		Nacionalidad:    str("nacionalidad"),
		Profesion:       str("profesion"),
	}

	for key, value := range raw {
		if citizenKnownKeys[key] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[key] = value
	}
	return nil
}

func (r CitizenRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+len(citizenKnownKeys))
	for key, value := range r.Extra {
		out[key] = value
	}

	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set("cedula", r.Cedula)
	set("nombre", r.Nombre)
	set("fechanacimiento", r.FechaNacimiento)
	set("domicilio", r.Domicilio)
	set("estado", r.Estado)
	set("estadocivil", r.EstadoCivil)
	set("fechaexpedicion", r.FechaExpedicion)
	set("instruccion", r.Instruccion)
	set("lugarnacimiento", r.LugarNacimiento)
	set("nacionalidad", r.Nacionalidad)
	set("profesion", r.Profesion)

	return json.Marshal(out)
}

// ValidationResult is the identity validation payload.
type ValidationResult struct {
	Cedula          string `json:"cedula"`
	Valida          bool   `json:"valida"`
	Motivo          string `json:"motivo,omitempty"`
	Nombre          string `json:"nombre,omitempty"`
	Estado          string `json:"estado,omitempty"`
	FechaValidacion string `json:"fechaValidacion,omitempty"`
}

// AuditRecord is one entry of the registry's query audit trail.
type AuditRecord struct {
	ID        string         `json:"_id,omitempty"`
	Usuario   string         `json:"usuario"`
	Cedula    string         `json:"cedula"`
	Endpoint  string         `json:"endpoint"`
	Metodo    string         `json:"metodo"`
	IPOrigen  string         `json:"ipOrigen"`
	Exitoso   bool           `json:"exitoso"`
	FechaHora string         `json:"fechaHora"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// AuditFilter narrows an audit search. Zero-valued fields are omitted
// from the outgoing query entirely.
type AuditFilter struct {
	FechaInicio string
	FechaFin    string
	Cedula      string
	Usuario     string
	Page        int
	Limit       int
}

// Values builds the sparse query string: only set fields appear.
func (f AuditFilter) Values() url.Values {
	q := url.Values{}
	if f.FechaInicio != "" {
		q.Set("fechaInicio", f.FechaInicio)
	}
	if f.FechaFin != "" {
		q.Set("fechaFin", f.FechaFin)
	}
	if f.Cedula != "" {
		q.Set("cedula", f.Cedula)
	}
	if f.Usuario != "" {
		q.Set("usuario", f.Usuario)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Pagination mirrors the registry's audit paging envelope.
type Pagination struct {
	PaginaActual       int `json:"paginaActual"`
	TotalPaginas       int `json:"totalPaginas"`
	TotalRegistros     int `json:"totalRegistros"`
	RegistrosPorPagina int `json:"registrosPorPagina"`
}

// AuditPage is one page of audit results. It lives only for the current
// query and is regenerated on every search.
type AuditPage struct {
	Registros  []AuditRecord `json:"registros"`
	Paginacion Pagination    `json:"paginacion"`
}

// SearchParams are the console's search-form criteria. The registry only
// supports cedula lookups; name criteria are rejected before any call.
type SearchParams struct {
	Cedula    string `json:"cedula,omitempty"`
	Nombres   string `json:"nombres,omitempty"`
	Apellidos string `json:"apellidos,omitempty"`
}

// SearchResult reshapes a single-citizen lookup into the list form the
// search page renders.
type SearchResult struct {
	Data    []CitizenRecord `json:"data"`
	Total   int             `json:"total"`
	Message string          `json:"message,omitempty"`
}

// Profile bundles the lookup and validation answers for the detail page.
type Profile struct {
	Citizen    *CitizenRecord    `json:"citizen"`
	Validation *ValidationResult `json:"validation"`
}
