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
	"github.com/jerry-enebeli/caixa/model"
)

func (a Api) CreateObligation(c *gin.Context) {
	var newObligation model2.CreateObligation
	if err := c.ShouldBindJSON(&newObligation); err != nil {
		bindError(c, err)
		return
	}
	if err := newObligation.ValidateCreateObligation(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.CreateObligation(c.Request.Context(), newObligation.ToObligation())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetObligation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetObligation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAllObligations filters on supplier_id, company_id and status.
func (a Api) GetAllObligations(c *gin.Context) {
	filter := model.ObligationFilter{
		SupplierID: c.Query("supplier_id"),
		CompanyID:  c.Query("company_id"),
		Status:     model.ObligationStatus(c.Query("status")),
	}
	resp, err := a.caixa.ListObligations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) UpdateObligation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update model2.CreateObligation
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	if err := update.ValidateCreateObligation(); err != nil {
		bindError(c, err)
		return
	}

	obligation := update.ToObligation()
	obligation.ID = id
	resp, err := a.caixa.UpdateObligation(c.Request.Context(), obligation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteObligation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.DeleteObligation(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "obligation deleted"})
}

func (a Api) RefreshObligationStatuses(c *gin.Context) {
	changed, err := a.caixa.RefreshObligationStatuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}

func (a Api) ApplyPayment(c *gin.Context) {
	var newPayment model2.ApplyPayment
	if err := c.ShouldBindJSON(&newPayment); err != nil {
		bindError(c, err)
		return
	}
	if err := newPayment.ValidateApplyPayment(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.ApplyPayment(c.Request.Context(), newPayment.ToPayment(a.today()))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAllPayments accepts ?obligation_id= to list one obligation's payments.
func (a Api) GetAllPayments(c *gin.Context) {
	resp, err := a.caixa.ListPayments(c.Request.Context(), c.Query("obligation_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) DeletePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.DeletePayment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment deleted"})
}

func (a Api) ApplyReceipt(c *gin.Context) {
	var newReceipt model2.ApplyReceipt
	if err := c.ShouldBindJSON(&newReceipt); err != nil {
		bindError(c, err)
		return
	}
	if err := newReceipt.ValidateApplyReceipt(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.ApplyReceipt(c.Request.Context(), newReceipt.ToReceipt(a.today()))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetReceipt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetReceipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllReceipts(c *gin.Context) {
	resp, err := a.caixa.ListReceipts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteReceipt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.DeleteReceipt(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "receipt deleted"})
}
