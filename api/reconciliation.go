/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/jerry-enebeli/caixa/api/model"
)

func (a Api) Reconcile(c *gin.Context) {
	var req model2.Reconcile
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := req.ValidateReconcile(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.Reconcile(c.Request.Context(), req.BankMovementID, req.SystemEntryID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) Unreconcile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.Unreconcile(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciliation removed"})
}

func (a Api) GetReconciliation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetReconciliation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllReconciliations(c *gin.Context) {
	resp, err := a.caixa.ListReconciliations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) SuggestMatches(c *gin.Context) {
	var req model2.SuggestMatches
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := req.ValidateSuggestMatches(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.SuggestMatches(c.Request.Context(), req.BankMovementID, req.Criteria.ToCriteria())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) AutoReconcile(c *gin.Context) {
	var req model2.AutoReconcile
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := req.ValidateAutoReconcile(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.AutoReconcile(c.Request.Context(), req.BankAccountID, req.Criteria.ToCriteria(), req.DryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetReconciliationSummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.ReconciliationSummary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
