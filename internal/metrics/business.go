package metrics

// IncrementProjectCreated increments project creation counter
func (m *Metrics) IncrementProjectCreated() {
	m.safeExecute("IncrementProjectCreated", func() {
		m.ProjectCreatedTotal.Inc()
	})
}

// IncrementCardCreated increments card creation counter
func (m *Metrics) IncrementCardCreated() {
	m.safeExecute("IncrementCardCreated", func() {
		m.CardCreatedTotal.Inc()
	})
}

// IncrementTaskCreated increments task creation counter
func (m *Metrics) IncrementTaskCreated() {
	m.safeExecute("IncrementTaskCreated", func() {
		m.TaskCreatedTotal.Inc()
	})
}

// IncrementAttachmentUpload increments the upload counter
func (m *Metrics) IncrementAttachmentUpload() {
	m.safeExecute("IncrementAttachmentUpload", func() {
		m.AttachmentUploadTotal.Inc()
	})
}

// IncrementAttachmentUploadError increments the failed upload counter
func (m *Metrics) IncrementAttachmentUploadError() {
	m.safeExecute("IncrementAttachmentUploadError", func() {
		m.AttachmentUploadErrors.Inc()
	})
}

// SetProjectsTotal sets total projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}
