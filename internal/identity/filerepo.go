package identity

import (
	"context"
	"os"
	"strings"
)

// fileRepo stores the table as whitespace-delimited two-column lines, one
// requester-identity pair per line. Reload order is not significant.
type fileRepo struct {
	path string
}

func NewFileRepository(path string) Repository {
	return &fileRepo{path: path}
}

func (r *fileRepo) Load(ctx context.Context) (map[string]string, error) {
	records := make(map[string]string)
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			// first run
			return records, nil
		}
		return nil, err
	}
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			records[fields[0]] = fields[1]
		}
	}
	return records, nil
}

func (r *fileRepo) Save(ctx context.Context, records map[string]string) error {
	var b strings.Builder
	for requester, steamID := range records {
		b.WriteString(requester)
		b.WriteByte(' ')
		b.WriteString(steamID)
		b.WriteByte('\n')
	}
	return os.WriteFile(r.path, []byte(b.String()), 0o644)
}
