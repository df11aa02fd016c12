package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/builder"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
)

type openSessionReq struct {
	Slug string `json:"slug" binding:"omitempty,slug"`
}

type loadReq struct {
	Slug string `json:"slug" binding:"required,slug"`
}

type moveReq struct {
	Direction section.Direction `json:"direction" binding:"required,oneof=up down"`
}

type updateSectionReq struct {
	Field section.Field   `json:"field" binding:"required"`
	Value json.RawMessage `json:"value"`
}

type buttonReq struct {
	Type   *section.ButtonKind `json:"type"`
	Name   *string             `json:"name"`
	Action *string             `json:"action"`
}

type submitResp struct {
	Campaign campaign.Campaign `json:"campaign"`
	Session  builder.View      `json:"session"`
}

// session resolves :id for the caller, writing the error response itself.
func (h *Handlers) session(c *gin.Context) (*builder.Session, bool) {
	s, err := h.Editor.Get(c.Param("id"), principalOf(c))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return s, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		writeError(c, apperr.Validation(apperr.CodeRequest, name, "%s must be an integer", name))
		return 0, false
	}
	return n, true
}

// edit runs op on the session and answers with the new view.
func (h *Handlers) edit(c *gin.Context, op string, status int, fn func(e *section.Editor) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Do(op, fn); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, s.View())
}

func (h *Handlers) OpenSession(c *gin.Context) {
	var req openSessionReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
	}
	p := principalOf(c)
	if err := auth.RequireAdmin(p); err != nil {
		writeError(c, err)
		return
	}
	s := h.Editor.Open(p)
	if req.Slug != "" {
		ctx, cancel := h.ctx(c)
		defer cancel()
		if err := s.Load(ctx, p, req.Slug); err != nil {
			_ = h.Editor.Close(s.ID, p)
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, s.View())
}

func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *Handlers) CloseSession(c *gin.Context) {
	if err := h.Editor.Close(c.Param("id"), principalOf(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) UpdateForm(c *gin.Context) {
	var req builder.FormPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.SetForm(req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *Handlers) LoadSession(c *gin.Context) {
	var req loadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := s.Load(ctx, principalOf(c), req.Slug); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *Handlers) AddSection(c *gin.Context) {
	h.edit(c, "add", http.StatusCreated, func(e *section.Editor) error {
		e.Add()
		return nil
	})
}

func (h *Handlers) RemoveSection(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	h.edit(c, "remove", http.StatusOK, func(e *section.Editor) error {
		e.Remove(i)
		return nil
	})
}

func (h *Handlers) MoveSection(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req moveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.edit(c, "move", http.StatusOK, func(e *section.Editor) error {
		e.Move(i, req.Direction)
		return nil
	})
}

func (h *Handlers) UpdateSection(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req updateSectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.edit(c, "update", http.StatusOK, func(e *section.Editor) error {
		return e.Update(i, req.Field, req.Value)
	})
}

func (h *Handlers) AddButton(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	h.edit(c, "add_button", http.StatusCreated, func(e *section.Editor) error {
		_, err := e.AddButton(i)
		return err
	})
}

func (h *Handlers) RemoveButton(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	b, ok := intParam(c, "button")
	if !ok {
		return
	}
	h.edit(c, "remove_button", http.StatusOK, func(e *section.Editor) error {
		return e.RemoveButton(i, b)
	})
}

func (h *Handlers) UpdateButton(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	b, ok := intParam(c, "button")
	if !ok {
		return
	}
	var req buttonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.edit(c, "update_button", http.StatusOK, func(e *section.Editor) error {
		if req.Type != nil {
			if err := e.SetButtonType(i, b, *req.Type); err != nil {
				return err
			}
		}
		if req.Name != nil {
			if err := e.SetButtonField(i, b, section.ButtonName, *req.Name); err != nil {
				return err
			}
		}
		if req.Action != nil {
			if err := e.SetButtonField(i, b, section.ButtonAction, *req.Action); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *Handlers) SubmitSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := s.Submit(ctx, principalOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitResp{Campaign: out, Session: s.View()})
}
