package details

// Detalles veterinarios. VeterinarianID siempre es el del veterinario que registró.

type Vaccination struct {
	EventID        string `json:"-"`
	VeterinarianID string `json:"veterinarian_id"`

	Type        string `json:"type"`
	Lot         string `json:"lot"`
	Lab         string `json:"lab"`
	NextDueDate Date   `json:"next_due_date"`
}

type Deworming struct {
	EventID        string `json:"-"`
	VeterinarianID string `json:"veterinarian_id"`

	Medication  string `json:"medication"`
	Dose        string `json:"dose"`
	NextDueDate Date   `json:"next_due_date"`
}

type Lab struct {
	EventID        string `json:"-"`
	VeterinarianID string `json:"veterinarian_id"`

	Type   string `json:"type"`
	Result string `json:"result"`
}

// Illness es el único detalle con identidad propia: los tratamientos lo referencian.
type Illness struct {
	EventID        string `json:"-"`
	IllnessID      string `json:"illness_id"`
	VeterinarianID string `json:"veterinarian_id"`

	Type string `json:"type"`
}

type Treatment struct {
	EventID        string `json:"-"`
	IllnessID      string `json:"illness_id"`
	VeterinarianID string `json:"veterinarian_id"`

	Medication string `json:"medication"`
	Dose       string `json:"dose"`
	Period     string `json:"period"`
}
