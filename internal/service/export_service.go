package service

import (
	"fmt"
	"io"

	"github.com/cloud-wave-best-zizon/battery-store/internal/catalog"
	"github.com/tealeg/xlsx"
)

const exportSheet = "Products"

var exportHeader = []string{
	"ID", "Name", "Brand", "Category", "Battery Type", "Voltage", "Capacity (Ah)", "CCA",
	"Warranty (months)", "Base Price", "Discount Price", "Effective Price", "On Discount",
	"Available", "In Stock", "Stock Quantity", "Rating",
}

// CatalogSnapshot is the read side ExportService needs.
type CatalogSnapshot interface {
	Browse(criteria catalog.Criteria) []catalog.Item
}

type ExportService struct {
	catalog CatalogSnapshot
}

func NewExportService(snapshot CatalogSnapshot) *ExportService {
	return &ExportService{catalog: snapshot}
}

// WriteProducts writes every product in the snapshot as one workbook row,
// priced at the time of the call.
func (s *ExportService) WriteProducts(w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, title := range exportHeader {
		header.AddCell().SetString(title)
	}

	for _, item := range s.catalog.Browse(catalog.Criteria{}) {
		row := sheet.AddRow()
		row.AddCell().SetString(item.ID)
		row.AddCell().SetString(item.Name)
		row.AddCell().SetString(item.Brand)
		row.AddCell().SetString(item.Category)
		row.AddCell().SetString(item.BatteryType)
		row.AddCell().SetInt(item.Voltage)
		row.AddCell().SetFloat(item.Capacity)
		row.AddCell().SetInt(item.CCA)
		row.AddCell().SetInt(item.Warranty)
		row.AddCell().SetString(item.BasePrice.StringFixed(2))
		discount := ""
		if item.DiscountPrice != nil {
			discount = item.DiscountPrice.StringFixed(2)
		}
		row.AddCell().SetString(discount)
		row.AddCell().SetString(item.EffectivePrice.StringFixed(2))
		row.AddCell().SetString(yesNo(item.IsOnDiscount))
		row.AddCell().SetString(yesNo(item.Available))
		row.AddCell().SetString(yesNo(item.InStock))
		row.AddCell().SetInt(item.StockQuantity)
		row.AddCell().SetFloat(item.Rating)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
