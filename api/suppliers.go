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

func pathID(c *gin.Context) (string, bool) {
	id, passed := c.Params.Get("id")
	if !passed || id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return "", false
	}
	return id, true
}

func (a Api) CreateSupplier(c *gin.Context) {
	var newSupplier model2.CreateSupplier
	if err := c.ShouldBindJSON(&newSupplier); err != nil {
		bindError(c, err)
		return
	}
	if err := newSupplier.ValidateCreateSupplier(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.CreateSupplier(c.Request.Context(), newSupplier.ToSupplier())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAllSuppliers lists suppliers, or searches them when ?q= is set.
func (a Api) GetAllSuppliers(c *gin.Context) {
	var (
		resp interface{}
		err  error
	)
	if q := c.Query("q"); q != "" {
		resp, err = a.caixa.SearchSuppliers(c.Request.Context(), q)
	} else {
		resp, err = a.caixa.ListSuppliers(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) UpdateSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update model2.CreateSupplier
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	if err := update.ValidateCreateSupplier(); err != nil {
		bindError(c, err)
		return
	}

	supplier := update.ToSupplier()
	supplier.ID = id
	resp, err := a.caixa.UpdateSupplier(c.Request.Context(), supplier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supplier deleted"})
}

func (a Api) CreateCompany(c *gin.Context) {
	var newCompany model2.CreateCompany
	if err := c.ShouldBindJSON(&newCompany); err != nil {
		bindError(c, err)
		return
	}
	if err := newCompany.ValidateCreateCompany(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.CreateCompany(c.Request.Context(), newCompany.ToCompany())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetCompany(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllCompanies(c *gin.Context) {
	resp, err := a.caixa.ListCompanies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) UpdateCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update model2.CreateCompany
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	if err := update.ValidateCreateCompany(); err != nil {
		bindError(c, err)
		return
	}

	company := update.ToCompany()
	company.ID = id
	resp, err := a.caixa.UpdateCompany(c.Request.Context(), company)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.DeleteCompany(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "company deleted"})
}
