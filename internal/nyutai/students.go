package nyutai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// ID is a nyutai identifier. The API is not consistent about sending ids as
// numbers or strings so both are accepted. A null id decodes to 0, which
// is never a valid id.
type ID int

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = 0
		return nil
	}
	data = bytes.Trim(data, `"`)
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n)
	return nil
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

func ParseID(s string) (ID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(n), nil
}

type Student struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// GetStudents walks the paginated students endpoint until a page comes back
// empty. Students are returned in the order the API lists them; a repeated id
// keeps its first position and its latest name. Any failed page fails the
// whole directory.
func (client *Client) GetStudents(ctx context.Context) ([]Student, error) {
	students := []Student{}
	index := map[ID]int{}

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))

		data, err := getData[Student](ctx, client, "students", query)
		if err != nil {
			return nil, fmt.Errorf("students page %d: %w", page, err)
		}

		if len(data) == 0 {
			break
		}

		for _, student := range data {
			if student.ID == 0 {
				slog.Warn("skipping student without id", "name", student.Name, "page", page)
				continue
			}
			if i, ok := index[student.ID]; ok {
				students[i].Name = student.Name
				continue
			}
			index[student.ID] = len(students)
			students = append(students, student)
		}
	}

	return students, nil
}

// FilterStudents keeps the students whose name contains substr (case
// sensitive), preserving directory order.
func FilterStudents(students []Student, substr string) []Student {
	matched := []Student{}
	for _, student := range students {
		if strings.Contains(student.Name, substr) {
			matched = append(matched, student)
		}
	}
	return matched
}
