package usecase

// Tamaño de lote al recorrer el repositorio cuando hay filtro en memoria.
const searchBatchSize = 200

// pageFiltered recorre el repositorio por lotes, aplica keep y corta la
// página (limit, offset) sobre el resultado YA filtrado. El filtro sin tildes
// no se puede expresar en SQL sin la extensión unaccent, así que paginar
// primero descartaría coincidencias más allá de la primera página.
func pageFiltered[T any](
	fetch func(limit, offset int) ([]T, error),
	keep func(T) bool,
	limit, offset int,
) ([]T, error) {
	if limit <= 0 {
		limit = 20
	}
	skip := offset
	if skip < 0 {
		skip = 0
	}
	out := make([]T, 0, limit)
	for batchOffset := 0; ; batchOffset += searchBatchSize {
		batch, err := fetch(searchBatchSize, batchOffset)
		if err != nil {
			return nil, err
		}
		for _, item := range batch {
			if !keep(item) {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			out = append(out, item)
			if len(out) == limit {
				return out, nil
			}
		}
		if len(batch) < searchBatchSize {
			return out, nil
		}
	}
}
