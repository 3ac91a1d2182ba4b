package dto

type AssignCamerasRequest struct {
	CameraIDs []uint `json:"camera_ids" validate:"required,dive,gt=0"`
}

type AssignCamerasResult struct {
	UserID          uint   `json:"user_id"`
	Username        string `json:"username"`
	AssignedCameras []uint `json:"assigned_cameras"`
	Added           []uint `json:"added"`
	Removed         []uint `json:"removed"`
	Total           int    `json:"total"`
}

type CameraImageCount struct {
	CameraID   uint   `json:"camera_id"`
	LineName   string `json:"line_name"`
	IsActive   bool   `json:"is_active"`
	ImageCount int64  `json:"image_count"`
}

type UserCameraStats struct {
	UserID      uint               `json:"user_id"`
	Username    string             `json:"username"`
	Cameras     []CameraImageCount `json:"cameras"`
	TotalImages int64              `json:"total_images"`
}

type AnnotatorAssignment struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	CameraCount int64  `json:"camera_count"`
	ImageCount  int64  `json:"image_count"`
}

type TaskAssignmentStats struct {
	TotalCameras       int64                 `json:"total_cameras"`
	AssignedCameras    int64                 `json:"assigned_cameras"`
	TotalImages        int64                 `json:"total_images"`
	AssignedImages     int64                 `json:"assigned_images"`
	UnassignedCameras  []CameraImageCount    `json:"unassigned_cameras"`
	AnnotatorWorkloads []AnnotatorAssignment `json:"annotator_workloads"`
}
