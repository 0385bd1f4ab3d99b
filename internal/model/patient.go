package model

// Patient mirrors the upstream patient record.
type Patient struct {
	PatientID      int64  `json:"patientId"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	DOB            string `json:"dob"`
	Gender         string `json:"gender"`
	ContactNumber  string `json:"contactNumber"`
	Address        string `json:"address"`
	MedicalHistory string `json:"medicalHistory"`
}

// UpdatePatientRequest covers both the patient's own profile edit and
// the admin patient edit; the upstream accepts the same shape.
type UpdatePatientRequest struct {
	Name           string `json:"name" form:"name" binding:"required"`
	DOB            string `json:"dob" form:"dob"`
	Gender         string `json:"gender" form:"gender"`
	ContactNumber  string `json:"contactNumber" form:"contactNumber"`
	Address        string `json:"address" form:"address"`
	MedicalHistory string `json:"medicalHistory" form:"medicalHistory"`
}

// RegisterPatientRequest is the admin-side creation payload, which adds
// credentials on top of the profile fields.
type RegisterPatientRequest struct {
	UpdatePatientRequest
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
