package qtff

// Atom kind registry (spec §4.D): the closed enumeration of four-character
// codes this core recognizes, named the way the rest of the retrieved
// ISO-BMFF readers name theirs (tetsuo-isobmff's BoxType table, moshee-sound's
// atomDefs map). Unknown tags — anything not in this table — are preserved
// as UnknownChild values at the top level and inside `moov`, `trak`, `mdia`,
// `minf` and `stbl` (see SPEC_FULL.md's Open Question decisions); inside
// `tapt`, `clip`, `matt`, `edts`, `imap`, `\0\0in`, `dinf` and `gmhd` they
// are skipped and dropped.
var (
	typeFtyp = fourCC("ftyp")
	typeMoov = fourCC("moov")
	typeMdat = fourCC("mdat")
	typeFree = fourCC("free")
	typeSkip = fourCC("skip")
	typeWide = fourCC("wide")
	typePnot = fourCC("pnot")

	typeMvhd = fourCC("mvhd")
	typeTrak = fourCC("trak")
	typeTkhd = fourCC("tkhd")
	typeTapt = fourCC("tapt")
	typeClef = fourCC("clef")
	typeProf = fourCC("prof")
	typeEnof = fourCC("enof")
	typeClip = fourCC("clip")
	typeCrgn = fourCC("crgn")
	typeMatt = fourCC("matt")
	typeKmat = fourCC("kmat")
	typeEdts = fourCC("edts")
	typeElst = fourCC("elst")
	typeTref = fourCC("tref")
	typeTxas = fourCC("txas")
	typeLoad   = fourCC("load")
	typeImap   = fourCC("imap")
	typeImapIn = FourCC{0, 0, 'i', 'n'}
	typeImapTy = FourCC{0, 0, 't', 'y'}
	typeObid   = fourCC("obid")

	typeMdia = fourCC("mdia")
	typeMdhd = fourCC("mdhd")
	typeElng = fourCC("elng")
	typeHdlr = fourCC("hdlr")
	typeMinf = fourCC("minf")
	typeVmhd = fourCC("vmhd")
	typeSmhd = fourCC("smhd")
	typeGmhd = fourCC("gmhd")
	typeGmin = fourCC("gmin")
	typeText = fourCC("text")
	typeDinf = fourCC("dinf")
	typeDref = fourCC("dref")

	typeStbl = fourCC("stbl")
	typeStsd = fourCC("stsd")
	typeStts = fourCC("stts")
	typeCtts = fourCC("ctts")
	typeCslg = fourCC("cslg")
	typeStss = fourCC("stss")
	typeStps = fourCC("stps")
	typeStsc = fourCC("stsc")
	typeStsz = fourCC("stsz")
	typeStco = fourCC("stco")
	typeSdtp = fourCC("sdtp")

	typeUdta = fourCC("udta")
	typeCtab = fourCC("ctab")
)

// componentSubtype values that select the MediaInformation variant from
// the handler reference (spec §3, Media container).
var (
	subtypeVideo = fourCC("vide")
	subtypeSound = fourCC("soun")
)
