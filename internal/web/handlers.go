package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Defaults for units created without explicit values, matching the UI's
// "+ Unit" button.
const (
	defaultUnitName = "New Unit"
	defaultUnitRows = 3
	defaultUnitCols = 6
)

type createUnitRequest struct {
	Name string `json:"name"`
	Rows *int   `json:"rows"`
	Cols *int   `json:"cols"`
}

type renameUnitRequest struct {
	Name string `json:"name"`
}

type createDefinitionRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

type createItemRequest struct {
	DefID string `json:"defId"`
	Label string `json:"label"`
}

type updateItemRequest struct {
	Label string `json:"label"`
	Notes string `json:"notes"`
}

type placeRequest struct {
	UnitID string `json:"unitId"`
	Row    int    `json:"r"`
	Col    int    `json:"c"`
}

type dropRequest struct {
	ItemID string `json:"itemId"`
	Target string `json:"target"`
}

type idResponse struct {
	ID string `json:"id"`
}

type releasedResponse struct {
	Released []string `json:"released"`
}

type unplacedResponse struct {
	Items []string `json:"items"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.inv.Snapshot())
}

func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.inv.Units())
}

func (s *Server) handleCreateUnit(w http.ResponseWriter, r *http.Request) {
	var req createUnitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultUnitName
	}
	rows, cols := defaultUnitRows, defaultUnitCols
	if req.Rows != nil {
		rows = *req.Rows
	}
	if req.Cols != nil {
		cols = *req.Cols
	}

	id, err := s.inv.CreateUnit(name, rows, cols)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	u, err := s.inv.Unit(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleRenameUnit(w http.ResponseWriter, r *http.Request) {
	var req renameUnitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.inv.RenameUnit(r.PathValue("id"), req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteUnit(w http.ResponseWriter, r *http.Request) {
	released, err := s.inv.DeleteUnit(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if released == nil {
		released = []string{}
	}
	writeJSON(w, http.StatusOK, releasedResponse{Released: released})
}

func (s *Server) handleClearSlot(w http.ResponseWriter, r *http.Request) {
	row, col, err := cellFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.inv.RemoveItemFromSlot(r.PathValue("id"), row, col); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.inv.Definitions())
}

func (s *Server) handleCreateDefinition(w http.ResponseWriter, r *http.Request) {
	var req createDefinitionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.writeError(w, r, fmt.Errorf("%w: definition name required", errBadRequest))
		return
	}

	id, err := s.inv.CreateDefinition(name, req.Emoji, req.Color)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.inv.Items())
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.DefID == "" {
		s.writeError(w, r, fmt.Errorf("%w: defId required", errBadRequest))
		return
	}
	if _, err := s.inv.Definition(req.DefID); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.inv.CreateItem(req.DefID, req.Label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.inv.UpdateItem(r.PathValue("id"), req.Label, req.Notes); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.inv.DeleteItem(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLocateItem(w http.ResponseWriter, r *http.Request) {
	loc, err := s.inv.FindItemLocation(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handlePlaceItem(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.inv.PlaceItem(r.PathValue("id"), req.UnitID, req.Row, req.Col); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnplaced(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, unplacedResponse{Items: s.inv.ListUnplacedItems()})
}

// handleDrop applies a drag-and-drop gesture: dropping on the inventory pool
// returns the item there, dropping on a slot places it.
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := ParseDropTarget(req.Target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if target.Inventory {
		err = s.inv.ReturnToInventory(req.ItemID)
	} else {
		err = s.inv.PlaceItem(req.ItemID, target.UnitID, target.Row, target.Col)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	loc, err := s.inv.FindItemLocation(req.ItemID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func cellFromPath(r *http.Request) (row, col int, err error) {
	row, err = strconv.Atoi(r.PathValue("row"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid row %q", errBadRequest, r.PathValue("row"))
	}
	col, err = strconv.Atoi(r.PathValue("col"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid col %q", errBadRequest, r.PathValue("col"))
	}
	return row, col, nil
}
