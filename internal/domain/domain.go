package domain

type Subtask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Subtasks    []Subtask `json:"subtasks"`
}

type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

type Board struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// TaskInput is a task without its id, as handed to AddTask.
type TaskInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Subtasks    []Subtask `json:"subtasks,omitempty"`
}

// TaskUpdate is a partial task; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Subtasks    *[]Subtask `json:"subtasks,omitempty"`
}

// ColumnEdit names a column in an EditBoard call. An empty ID means a new column.
type ColumnEdit struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Event struct {
	ID         int64  `json:"id" db:"id"`
	TS         string `json:"ts" db:"ts" format:"date-time"`
	Type       string `json:"type" db:"type"`
	EntityKind string `json:"entity_kind" db:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty" db:"entity_id"`
	ActorID    string `json:"actor_id" db:"actor_id"`
	Payload    string `json:"payload_json" db:"payload_json"`
}

// CompletedSubtasks counts finished checklist items.
func (t Task) CompletedSubtasks() int {
	n := 0
	for _, st := range t.Subtasks {
		if st.IsCompleted {
			n++
		}
	}
	return n
}

func (t Task) Clone() Task {
	out := t
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	return out
}

func (c Column) Clone() Column {
	out := c
	if c.Tasks != nil {
		out.Tasks = make([]Task, len(c.Tasks))
		for i, t := range c.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	return out
}

func (b Board) Clone() Board {
	out := b
	if b.Columns != nil {
		out.Columns = make([]Column, len(b.Columns))
		for i, c := range b.Columns {
			out.Columns[i] = c.Clone()
		}
	}
	return out
}

// CloneBoards deep-copies a board collection, keeping nil as nil.
func CloneBoards(in []Board) []Board {
	if in == nil {
		return nil
	}
	out := make([]Board, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

// Normalize replaces nil slices with empty ones so JSON output uses [] not null.
func (b *Board) Normalize() {
	if b.Columns == nil {
		b.Columns = []Column{}
	}
	for i := range b.Columns {
		if b.Columns[i].Tasks == nil {
			b.Columns[i].Tasks = []Task{}
		}
		for j := range b.Columns[i].Tasks {
			if b.Columns[i].Tasks[j].Subtasks == nil {
				b.Columns[i].Tasks[j].Subtasks = []Subtask{}
			}
		}
	}
}
