package render

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"tradedoc/vars"
)

// 小于这个体积的 PDF 当作主后端转换失败，切备用后端
const minPDFSize = 1024

// Toolchain 光栅化工具链：docx -> pdf -> 页图 -> 纯图 PDF。
// 最终产物不可编辑也选不了字——收件人改不了填进去的值。
// 转换后端是外部子进程，各带超时。
type Toolchain struct {
	soffice  string
	unoconv  string
	pdftoppm string
	timeout  time.Duration
	dpi      int
}

func NewToolchain() *Toolchain {
	return &Toolchain{
		soffice:  vars.SOFFICE_BIN,
		unoconv:  vars.UNOCONV_BIN,
		pdftoppm: vars.PDFTOPPM_BIN,
		timeout:  120 * time.Second,
		dpi:      150,
	}
}

// Rasterize docx 一路转成纯图 PDF
func (t *Toolchain) Rasterize(ctx context.Context, docxPath string) ([]byte, error) {
	pdf, err := t.DocumentToPDF(ctx, docxPath)
	if err != nil {
		return nil, err
	}
	images, err := t.PDFToImages(ctx, pdf)
	if err != nil {
		return nil, err
	}
	return t.ImagesToPDF(images)
}

// DocumentToPDF 先走 soffice，失败或产物过小再走 unoconv
func (t *Toolchain) DocumentToPDF(ctx context.Context, docxPath string) ([]byte, error) {
	pdf, err := t.sofficeConvert(ctx, docxPath)
	if err == nil && len(pdf) >= minPDFSize {
		return pdf, nil
	}
	if err != nil {
		log.Printf("[Render] soffice 转换失败，切 unoconv: %v", err)
	} else {
		log.Printf("[Render] soffice 产物过小(%d bytes)，切 unoconv", len(pdf))
	}

	pdf, err2 := t.unoconvConvert(ctx, docxPath)
	if err2 != nil {
		return nil, fmt.Errorf("both pdf backends failed: soffice: %v; unoconv: %v", err, err2)
	}
	return pdf, nil
}

func (t *Toolchain) sofficeConvert(ctx context.Context, docxPath string) ([]byte, error) {
	outDir, err := os.MkdirTemp("", "soffice-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(outDir)

	cctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, t.soffice, "--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("soffice: %v, output: %s", err, out)
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	return os.ReadFile(filepath.Join(outDir, base+".pdf"))
}

func (t *Toolchain) unoconvConvert(ctx context.Context, docxPath string) ([]byte, error) {
	outFile, err := os.CreateTemp("", "unoconv-*.pdf")
	if err != nil {
		return nil, err
	}
	outFile.Close()
	defer os.Remove(outFile.Name())

	cctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, t.unoconv, "-f", "pdf", "-o", outFile.Name(), docxPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("unoconv: %v, output: %s", err, out)
	}
	return os.ReadFile(outFile.Name())
}

// PDFToImages 用 pdftoppm 按页出 PNG
func (t *Toolchain) PDFToImages(ctx context.Context, pdf []byte) ([][]byte, error) {
	tmpDir, err := os.MkdirTemp("", "pdfimg-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, t.pdftoppm, "-png", "-r", strconv.Itoa(t.dpi), pdfPath, filepath.Join(tmpDir, "page"))
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %v, output: %s", err, out)
	}

	pages, err := filepath.Glob(filepath.Join(tmpDir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		// 单页时 pdftoppm 可能不带页号
		pages, _ = filepath.Glob(filepath.Join(tmpDir, "page*.png"))
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages")
	}
	sort.Strings(pages)

	images := make([][]byte, 0, len(pages))
	for _, p := range pages {
		img, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// ImagesToPDF 页图重新拼回一个 PDF（A4，整页铺满）
func (t *Toolchain) ImagesToPDF(images [][]byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range images {
		name := fmt.Sprintf("page-%d", i)
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(img))
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, 210, 297, false, opt, 0, "")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("assemble pdf failed: %w", err)
	}
	return buf.Bytes(), nil
}
