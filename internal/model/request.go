package model

type NodeActionRequest struct {
	Name   string `uri:"name" binding:"required"`
	Action string `uri:"action" binding:"required"`
}

type FleetActionRequest struct {
	Action string `uri:"action" binding:"required"`
}

type NodeRequest struct {
	Name string `uri:"name" binding:"required"`
}
